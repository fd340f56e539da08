package report

import (
	"context"
	"strings"
	"testing"
	"time"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestFlow(courier Courier, admins []int64, channel string) (*Flow, *testClock) {
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	f := NewFlow(FlowOptions{
		Sessions:  NewSessions(30 * time.Minute),
		Cooldowns: NewMemoryCooldowns(60 * time.Second),
		Dispatcher: NewDispatcher(DispatcherOptions{
			Courier:   courier,
			ChannelID: channel,
			AdminIDs:  admins,
		}),
		MaxDetailsLen: 1000,
		Now:           clock.Now,
	})
	return f, clock
}

func submitReport(t *testing.T, f *Flow, rep Reporter, target, details string) Prompt {
	t.Helper()
	ctx := context.Background()

	f.Start(ctx, rep)
	if _, ok := f.SelectType(ctx, rep, TypeUser); !ok {
		t.Fatal("type selection not handled")
	}
	if _, ok := f.Text(ctx, rep, target); !ok {
		t.Fatal("target not handled")
	}
	if _, ok := f.SelectReason(ctx, rep, ReasonSpam); !ok {
		t.Fatal("reason selection not handled")
	}
	if _, ok := f.Text(ctx, rep, details); !ok {
		t.Fatal("details not handled")
	}
	prompt, ok := f.Confirm(ctx, rep)
	if !ok {
		t.Fatal("confirm not handled")
	}
	return prompt
}

func TestFlowHappyPath(t *testing.T) {
	ctx := context.Background()
	courier := newFakeCourier()
	f, _ := newTestFlow(courier, []int64{100, 200}, "@reports")
	rep := Reporter{ID: 7, FullName: "Test User"}

	start := f.Start(ctx, rep)
	if len(start.Keyboard) != len(Types)+1 {
		t.Fatalf("type keyboard rows = %d, want %d", len(start.Keyboard), len(Types)+1)
	}
	if !f.Active(rep.ID) {
		t.Fatal("session should be active after /report")
	}

	chosen, ok := f.SelectType(ctx, rep, TypeGroup)
	if !ok || !strings.Contains(chosen.Text, TypeGroup.Label()) {
		t.Fatalf("type prompt: %q", chosen.Text)
	}

	reasons, ok := f.Text(ctx, rep, "@some_group")
	if !ok || len(reasons.Keyboard) != len(Reasons)+1 {
		t.Fatalf("reason keyboard rows = %d", len(reasons.Keyboard))
	}

	if _, ok := f.SelectReason(ctx, rep, ReasonScam); !ok {
		t.Fatal("reason not handled")
	}

	summary, ok := f.Text(ctx, rep, "fake giveaway links")
	if !ok {
		t.Fatal("details not handled")
	}
	for _, want := range []string{TypeGroup.Label(), "@some_group", ReasonScam.Title(), "fake giveaway links"} {
		if !strings.Contains(summary.Text, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary.Text)
		}
	}

	done, ok := f.Confirm(ctx, rep)
	if !ok || done.Text != submittedText {
		t.Fatalf("confirm prompt: %q", done.Text)
	}
	if f.Active(rep.ID) {
		t.Fatal("session must be cleared after submission")
	}

	if len(courier.channel) != 1 {
		t.Fatalf("channel deliveries = %d, want 1", len(courier.channel))
	}
	if len(courier.admins[100]) != 1 || len(courier.admins[200]) != 1 {
		t.Fatalf("admin deliveries: %v", courier.admins)
	}
	delivered := courier.channel[0]
	for _, want := range []string{"@some_group", "fake giveaway links", ReasonScam.Title(), "Test User"} {
		if !strings.Contains(delivered, want) {
			t.Fatalf("delivered report missing %q:\n%s", want, delivered)
		}
	}
}

func TestFlowSkipDetails(t *testing.T) {
	ctx := context.Background()
	courier := newFakeCourier()
	f, _ := newTestFlow(courier, []int64{100}, "")
	rep := Reporter{ID: 7}

	f.Start(ctx, rep)
	f.SelectType(ctx, rep, TypeUser)
	f.Text(ctx, rep, "@spammer")
	f.SelectReason(ctx, rep, ReasonSpam)

	summary, ok := f.Skip(ctx, rep)
	if !ok || !strings.Contains(summary.Text, NoDetails) {
		t.Fatalf("skip summary: %q", summary.Text)
	}

	if _, ok := f.Confirm(ctx, rep); !ok {
		t.Fatal("confirm not handled")
	}
	if !strings.Contains(courier.admins[100][0], NoDetails) {
		t.Fatal("delivered report should carry the no-details sentinel")
	}
}

func TestFlowSkipOnlyWhileAwaitingDetails(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFlow(newFakeCourier(), []int64{100}, "")
	rep := Reporter{ID: 7}

	if _, ok := f.Skip(ctx, rep); ok {
		t.Fatal("skip without a session must be ignored")
	}

	f.Start(ctx, rep)
	if _, ok := f.Skip(ctx, rep); ok {
		t.Fatal("skip while awaiting type must be ignored")
	}
}

func TestFlowInvalidTargetReprompts(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFlow(newFakeCourier(), []int64{100}, "")
	rep := Reporter{ID: 7}

	f.Start(ctx, rep)
	f.SelectType(ctx, rep, TypeUser)

	prompt, ok := f.Text(ctx, rep, "not a username")
	if !ok || prompt.Text != invalidTargetText {
		t.Fatalf("invalid target prompt: %q", prompt.Text)
	}

	// The step did not advance; a valid target is still accepted.
	prompt, ok = f.Text(ctx, rep, "@valid_user")
	if !ok || prompt.Text != chooseReasonText {
		t.Fatalf("valid target after invalid: %q", prompt.Text)
	}
}

func TestFlowDetailsLengthLimit(t *testing.T) {
	ctx := context.Background()
	courier := newFakeCourier()
	f, _ := newTestFlow(courier, []int64{100}, "")
	rep := Reporter{ID: 7}

	f.Start(ctx, rep)
	f.SelectType(ctx, rep, TypeUser)
	f.Text(ctx, rep, "@spammer")
	f.SelectReason(ctx, rep, ReasonSpam)

	// Multibyte runes: the limit counts runes, not bytes.
	over := strings.Repeat("я", 1001)
	prompt, ok := f.Text(ctx, rep, over)
	if !ok || !strings.Contains(prompt.Text, "too long") {
		t.Fatalf("overlong details prompt: %q", prompt.Text)
	}

	exact := strings.Repeat("я", 1000)
	prompt, ok = f.Text(ctx, rep, exact)
	if !ok || !strings.Contains(prompt.Text, "confirm") {
		t.Fatalf("details at the limit must be accepted: %q", prompt.Text)
	}
}

func TestFlowEmptyDetailsReprompts(t *testing.T) {
	ctx := context.Background()
	courier := newFakeCourier()
	f, _ := newTestFlow(courier, []int64{100}, "")
	rep := Reporter{ID: 7}

	f.Start(ctx, rep)
	f.SelectType(ctx, rep, TypeUser)
	f.Text(ctx, rep, "@spammer")
	f.SelectReason(ctx, rep, ReasonSpam)

	// Caption-less documents surface as empty text.
	for _, blank := range []string{"", "   ", "\n\t"} {
		prompt, ok := f.Text(ctx, rep, blank)
		if !ok || !strings.Contains(prompt.Text, "provide additional details") {
			t.Fatalf("blank details %q: ok=%v text=%q", blank, ok, prompt.Text)
		}
	}

	// The step did not advance and the draft still submits cleanly.
	if _, ok := f.Confirm(ctx, rep); ok {
		t.Fatal("confirm must not be reachable while still awaiting details")
	}
	prompt, ok := f.Text(ctx, rep, "real details")
	if !ok || !strings.Contains(prompt.Text, "confirm") {
		t.Fatalf("details after blanks: %q", prompt.Text)
	}
	done, ok := f.Confirm(ctx, rep)
	if !ok || done.Text != submittedText {
		t.Fatalf("confirm after blanks: %q", done.Text)
	}
	if len(courier.admins[100]) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(courier.admins[100]))
	}
}

func TestFlowCancelFromEveryState(t *testing.T) {
	ctx := context.Background()
	rep := Reporter{ID: 7}

	steps := []struct {
		name  string
		setup func(f *Flow)
	}{
		{"awaiting_type", func(f *Flow) {
			f.Start(ctx, rep)
		}},
		{"awaiting_target", func(f *Flow) {
			f.Start(ctx, rep)
			f.SelectType(ctx, rep, TypeUser)
		}},
		{"awaiting_reason", func(f *Flow) {
			f.Start(ctx, rep)
			f.SelectType(ctx, rep, TypeUser)
			f.Text(ctx, rep, "@spammer")
		}},
		{"awaiting_details", func(f *Flow) {
			f.Start(ctx, rep)
			f.SelectType(ctx, rep, TypeUser)
			f.Text(ctx, rep, "@spammer")
			f.SelectReason(ctx, rep, ReasonSpam)
		}},
		{"awaiting_confirm", func(f *Flow) {
			f.Start(ctx, rep)
			f.SelectType(ctx, rep, TypeUser)
			f.Text(ctx, rep, "@spammer")
			f.SelectReason(ctx, rep, ReasonSpam)
			f.Text(ctx, rep, "details")
		}},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			courier := newFakeCourier()
			f, _ := newTestFlow(courier, []int64{100}, "@reports")
			step.setup(f)

			prompt, had := f.Cancel(ctx, rep)
			if !had || prompt.Text != cancelledText {
				t.Fatalf("cancel: had=%v text=%q", had, prompt.Text)
			}
			if f.Active(rep.ID) {
				t.Fatal("session must be gone after cancel")
			}
			if len(courier.channel) != 0 || len(courier.admins) != 0 {
				t.Fatal("cancelled report must not be delivered")
			}

			// Cancelling sets no cooldown.
			start := f.Start(ctx, rep)
			if !strings.Contains(start.Text, "What would you like to report") {
				t.Fatalf("restart after cancel: %q", start.Text)
			}
		})
	}
}

func TestFlowCooldownAfterSubmit(t *testing.T) {
	ctx := context.Background()
	courier := newFakeCourier()
	f, clock := newTestFlow(courier, []int64{100}, "")
	rep := Reporter{ID: 7}

	submitReport(t, f, rep, "@spammer", "details")

	blocked := f.Start(ctx, rep)
	if !strings.Contains(blocked.Text, "wait 60 seconds") {
		t.Fatalf("cooldown prompt: %q", blocked.Text)
	}
	if f.Active(rep.ID) {
		t.Fatal("blocked /report must not open a session")
	}

	clock.Advance(59 * time.Second)
	if got := f.Start(ctx, rep); !strings.Contains(got.Text, "wait 1 seconds") {
		t.Fatalf("cooldown at 59s: %q", got.Text)
	}

	clock.Advance(time.Second)
	if got := f.Start(ctx, rep); !strings.Contains(got.Text, "What would you like to report") {
		t.Fatalf("cooldown should be over: %q", got.Text)
	}
}

func TestFlowCooldownPerUser(t *testing.T) {
	ctx := context.Background()
	courier := newFakeCourier()
	f, _ := newTestFlow(courier, []int64{100}, "")

	submitReport(t, f, Reporter{ID: 7}, "@spammer", "details")

	other := Reporter{ID: 8}
	if got := f.Start(ctx, other); strings.Contains(got.Text, "wait") {
		t.Fatalf("user 8 must not inherit user 7's cooldown: %q", got.Text)
	}
}

func TestFlowStepsIgnoredOutOfOrder(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFlow(newFakeCourier(), []int64{100}, "")
	rep := Reporter{ID: 7}

	if _, ok := f.Confirm(ctx, rep); ok {
		t.Fatal("confirm without a session must be ignored")
	}
	if _, ok := f.Text(ctx, rep, "@spammer"); ok {
		t.Fatal("free text without a session must be ignored")
	}

	f.Start(ctx, rep)
	if _, ok := f.SelectReason(ctx, rep, ReasonSpam); ok {
		t.Fatal("reason before target must be ignored")
	}
	if _, ok := f.SelectType(ctx, rep, Type("bogus")); ok {
		t.Fatal("unknown type must be rejected")
	}
}

func TestFlowRestartOverwritesDraft(t *testing.T) {
	ctx := context.Background()
	courier := newFakeCourier()
	f, _ := newTestFlow(courier, []int64{100}, "")
	rep := Reporter{ID: 7}

	f.Start(ctx, rep)
	f.SelectType(ctx, rep, TypeChannel)
	f.Text(ctx, rep, "@old_channel")

	// A second /report discards the partial draft.
	f.Start(ctx, rep)
	submitted := submitReport(t, f, rep, "@new_target", "details")
	if submitted.Text != submittedText {
		t.Fatalf("submit after restart: %q", submitted.Text)
	}
	if strings.Contains(courier.admins[100][0], "@old_channel") {
		t.Fatal("discarded draft leaked into the delivered report")
	}
}

func TestFlowTwoUsersIndependent(t *testing.T) {
	ctx := context.Background()
	courier := newFakeCourier()
	f, _ := newTestFlow(courier, []int64{100}, "")
	alice := Reporter{ID: 1, FullName: "Alice"}
	bob := Reporter{ID: 2, FullName: "Bob"}

	f.Start(ctx, alice)
	f.SelectType(ctx, alice, TypeUser)

	f.Start(ctx, bob)
	f.SelectType(ctx, bob, TypeChannel)
	f.Text(ctx, bob, "@bad_channel")
	f.SelectReason(ctx, bob, ReasonIllegal)
	f.Text(ctx, bob, "bob details")
	if _, ok := f.Confirm(ctx, bob); !ok {
		t.Fatal("bob's confirm not handled")
	}

	// Alice's draft is untouched by Bob's submission.
	if !f.Active(alice.ID) {
		t.Fatal("alice's session should survive")
	}
	prompt, ok := f.Text(ctx, alice, "@alice_target")
	if !ok || prompt.Text != chooseReasonText {
		t.Fatalf("alice's flow broken: %q", prompt.Text)
	}

	if len(courier.admins[100]) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(courier.admins[100]))
	}
	if !strings.Contains(courier.admins[100][0], "Bob") {
		t.Fatal("delivered report should be bob's")
	}
}

func TestFlowReportIDsUnique(t *testing.T) {
	courier := newFakeCourier()
	f, _ := newTestFlow(courier, []int64{100}, "")

	submitReport(t, f, Reporter{ID: 1}, "@first_target", "details")
	submitReport(t, f, Reporter{ID: 2}, "@second_target", "details")

	texts := courier.admins[100]
	if len(texts) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(texts))
	}
	id1 := extractReportID(t, texts[0])
	id2 := extractReportID(t, texts[1])
	if id1 == id2 {
		t.Fatalf("two submissions in the same second share id %s", id1)
	}
}

func extractReportID(t *testing.T, text string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "**Report ID:** #") {
			return strings.TrimPrefix(line, "**Report ID:** #")
		}
	}
	t.Fatalf("no report id in:\n%s", text)
	return ""
}
