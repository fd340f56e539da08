package report

import (
	"sync"
	"testing"
	"time"
)

func TestSessionsTransitionAndActive(t *testing.T) {
	s := NewSessions(30 * time.Minute)

	if s.Active(1) {
		t.Fatal("no session yet")
	}

	s.Transition(1, func(sess *Session) *Session {
		if sess != nil {
			t.Fatal("expected nil session on first transition")
		}
		return &Session{Reporter: Reporter{ID: 1}, State: StateAwaitingType}
	})

	if !s.Active(1) {
		t.Fatal("session should be active")
	}
	if s.Active(2) {
		t.Fatal("other users must not see the session")
	}

	s.Clear(1)
	if s.Active(1) {
		t.Fatal("session should be cleared")
	}
}

func TestSessionsOverwrite(t *testing.T) {
	s := NewSessions(30 * time.Minute)

	s.Transition(1, func(*Session) *Session {
		return &Session{Reporter: Reporter{ID: 1}, State: StateAwaitingConfirm, Draft: Draft{Target: "@old_target"}}
	})
	s.Transition(1, func(*Session) *Session {
		return &Session{Reporter: Reporter{ID: 1}, State: StateAwaitingType}
	})

	s.Transition(1, func(sess *Session) *Session {
		if sess == nil {
			t.Fatal("expected session")
		}
		if sess.State != StateAwaitingType || sess.Draft.Target != "" {
			t.Fatalf("old session leaked through: %+v", sess)
		}
		return sess
	})
}

func TestSessionsEvictIdle(t *testing.T) {
	s := NewSessions(30 * time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	s.Transition(1, func(*Session) *Session {
		return &Session{Reporter: Reporter{ID: 1}, State: StateAwaitingTarget}
	})
	s.Transition(2, func(*Session) *Session {
		return &Session{Reporter: Reporter{ID: 2}, State: StateAwaitingTarget}
	})

	// User 2 stays active a while later.
	s.now = func() time.Time { return base.Add(20 * time.Minute) }
	s.Transition(2, func(sess *Session) *Session { return sess })

	evicted := s.EvictIdle(base.Add(35 * time.Minute))
	if evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
	if s.Active(1) {
		t.Fatal("idle session should be gone")
	}
	if !s.Active(2) {
		t.Fatal("recently touched session must survive")
	}
}

func TestSessionsEvictThenReuse(t *testing.T) {
	s := NewSessions(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	s.Transition(1, func(*Session) *Session {
		return &Session{Reporter: Reporter{ID: 1}, State: StateAwaitingType}
	})
	if n := s.EvictIdle(base.Add(2 * time.Minute)); n != 1 {
		t.Fatalf("evicted = %d, want 1", n)
	}

	// A new conversation after eviction gets a fresh slot.
	s.Transition(1, func(sess *Session) *Session {
		if sess != nil {
			t.Fatal("expected nil session after eviction")
		}
		return &Session{Reporter: Reporter{ID: 1}, State: StateAwaitingType}
	})
	if !s.Active(1) {
		t.Fatal("new session should be active")
	}
}

func TestSessionsConcurrentUsers(t *testing.T) {
	s := NewSessions(30 * time.Minute)

	var wg sync.WaitGroup
	for id := int64(1); id <= 50; id++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Transition(userID, func(sess *Session) *Session {
					if sess == nil {
						return &Session{Reporter: Reporter{ID: userID}, State: StateAwaitingType}
					}
					if sess.Reporter.ID != userID {
						t.Errorf("session for user %d holds reporter %d", userID, sess.Reporter.ID)
					}
					return sess
				})
			}
		}(id)
	}
	wg.Wait()

	for id := int64(1); id <= 50; id++ {
		if !s.Active(id) {
			t.Fatalf("user %d lost their session", id)
		}
	}
}
