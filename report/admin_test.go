package report

import (
	"context"
	"sync"
	"testing"
)

func TestAdminDeskFirstVerdictWins(t *testing.T) {
	desk := NewAdminDesk(nil)
	ctx := context.Background()

	v, changed := desk.Decide(ctx, "r1", VerdictResolved)
	if !changed || v != VerdictResolved {
		t.Fatalf("first decide: %v %v", v, changed)
	}

	v, changed = desk.Decide(ctx, "r1", VerdictRejected)
	if changed {
		t.Fatal("second verdict must not overwrite the first")
	}
	if v != VerdictResolved {
		t.Fatalf("repeat decide returned %v, want existing %v", v, VerdictResolved)
	}
}

func TestAdminDeskIndependentReports(t *testing.T) {
	desk := NewAdminDesk(nil)
	ctx := context.Background()

	desk.Decide(ctx, "r1", VerdictResolved)
	v, changed := desk.Decide(ctx, "r2", VerdictRejected)
	if !changed || v != VerdictRejected {
		t.Fatalf("verdict for r2: %v %v", v, changed)
	}
}

func TestAdminDeskRejectsInvalidInput(t *testing.T) {
	desk := NewAdminDesk(nil)
	ctx := context.Background()

	if _, changed := desk.Decide(ctx, "", VerdictResolved); changed {
		t.Fatal("empty report id must be ignored")
	}
	if _, changed := desk.Decide(ctx, "r1", Verdict("bogus")); changed {
		t.Fatal("unknown verdict must be ignored")
	}
}

type recordingStore struct {
	mu    sync.Mutex
	calls map[string]string
}

func (r *recordingStore) SetVerdict(_ context.Context, reportID, verdict string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]string)
	}
	r.calls[reportID] = verdict
	return nil
}

func TestAdminDeskPersistsVerdictOnce(t *testing.T) {
	store := &recordingStore{}
	desk := NewAdminDesk(store)
	ctx := context.Background()

	desk.Decide(ctx, "r1", VerdictRejected)
	desk.Decide(ctx, "r1", VerdictResolved)

	if len(store.calls) != 1 || store.calls["r1"] != "rejected" {
		t.Fatalf("store calls: %v", store.calls)
	}
}

func TestAdminDeskConcurrentPresses(t *testing.T) {
	desk := NewAdminDesk(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	wins := make(chan Verdict, 10)
	for i := 0; i < 10; i++ {
		v := VerdictResolved
		if i%2 == 1 {
			v = VerdictRejected
		}
		wg.Add(1)
		go func(v Verdict) {
			defer wg.Done()
			if got, changed := desk.Decide(ctx, "r1", v); changed {
				wins <- got
			}
		}(v)
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("exactly one press must win, got %d", count)
	}
}
