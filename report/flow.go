package report

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m3rciful/reportbot/core/logger"
)

// FlowOptions wires the conversation flow dependencies.
type FlowOptions struct {
	Sessions      *Sessions
	Cooldowns     CooldownStore
	Dispatcher    *Dispatcher
	MaxDetailsLen int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Flow drives the report conversation: an ordered sequence of steps with a
// cancel edge from every state. Each transition runs under the user's session
// lock and emits exactly one prompt; fan-out happens after the lock is
// released.
type Flow struct {
	sessions   *Sessions
	cooldowns  CooldownStore
	dispatcher *Dispatcher
	maxDetails int
	now        func() time.Time
}

// NewFlow constructs the flow.
func NewFlow(opts FlowOptions) *Flow {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Flow{
		sessions:   opts.Sessions,
		cooldowns:  opts.Cooldowns,
		dispatcher: opts.Dispatcher,
		maxDetails: opts.MaxDetailsLen,
		now:        now,
	}
}

// Active reports whether the user has a conversation in progress.
func (f *Flow) Active(userID int64) bool {
	return f.sessions.Active(userID)
}

// Start handles /report: either a cooldown notice or a fresh session at the
// type-selection step. An existing session for the user is overwritten.
func (f *Flow) Start(ctx context.Context, rep Reporter) Prompt {
	if remaining, blocked := f.cooldowns.Remaining(rep.ID, f.now()); blocked {
		logger.Debug(ctx, "report.flow", "flow.cooldown",
			slog.Int64("user_id", rep.ID),
			slog.Int64("remaining_s", int64(remaining.Seconds())),
		)
		return Prompt{Text: CooldownText(remaining)}
	}

	f.sessions.Transition(rep.ID, func(*Session) *Session {
		return &Session{Reporter: rep, State: StateAwaitingType}
	})
	f.logTransition(ctx, rep.ID, StateAwaitingType)
	return Prompt{Text: chooseTypeText, Keyboard: typeKeyboard()}
}

// SelectType handles the report-type button press.
func (f *Flow) SelectType(ctx context.Context, rep Reporter, t Type) (Prompt, bool) {
	if !t.Valid() {
		return Prompt{}, false
	}
	var (
		prompt  Prompt
		handled bool
	)
	f.sessions.Transition(rep.ID, func(sess *Session) *Session {
		if sess == nil || sess.State != StateAwaitingType {
			return sess
		}
		sess.Draft.Type = t
		sess.State = StateAwaitingTarget
		prompt = Prompt{Text: typeChosenText(t)}
		handled = true
		return sess
	})
	if handled {
		f.logTransition(ctx, rep.ID, StateAwaitingTarget, slog.String("report_type", string(t)))
	}
	return prompt, handled
}

// Text handles free text for the state that expects it: the target identifier
// or the details. Validation failures re-prompt without advancing.
func (f *Flow) Text(ctx context.Context, rep Reporter, text string) (Prompt, bool) {
	var (
		prompt  Prompt
		next    State
		handled bool
	)
	f.sessions.Transition(rep.ID, func(sess *Session) *Session {
		if sess == nil {
			return sess
		}
		switch sess.State {
		case StateAwaitingTarget:
			handled = true
			if !ValidTarget(text) {
				prompt = Prompt{Text: invalidTargetText}
				next = sess.State
				return sess
			}
			sess.Draft.Target = text
			sess.State = StateAwaitingReason
			prompt = Prompt{Text: chooseReasonText, Keyboard: reasonKeyboard()}
		case StateAwaitingDetails:
			handled = true
			// Caption-less documents arrive here as empty text; a blank
			// details field would fail the completeness guard at confirm.
			if strings.TrimSpace(text) == "" {
				prompt = Prompt{Text: detailsPromptText(f.maxDetails)}
				next = sess.State
				return sess
			}
			if utf8.RuneCountInString(text) > f.maxDetails {
				prompt = Prompt{Text: detailsTooLongText(f.maxDetails)}
				next = sess.State
				return sess
			}
			sess.Draft.Details = text
			sess.State = StateAwaitingConfirm
			prompt = Prompt{Text: summaryText(sess.Draft), Keyboard: confirmKeyboard()}
		default:
			return sess
		}
		next = sess.State
		return sess
	})
	if handled {
		f.logTransition(ctx, rep.ID, next)
	}
	return prompt, handled
}

// SelectReason handles the reason button press.
func (f *Flow) SelectReason(ctx context.Context, rep Reporter, r Reason) (Prompt, bool) {
	if !r.Valid() {
		return Prompt{}, false
	}
	var (
		prompt  Prompt
		handled bool
	)
	f.sessions.Transition(rep.ID, func(sess *Session) *Session {
		if sess == nil || sess.State != StateAwaitingReason {
			return sess
		}
		sess.Draft.Reason = r
		sess.State = StateAwaitingDetails
		prompt = Prompt{Text: detailsPromptText(f.maxDetails)}
		handled = true
		return sess
	})
	if handled {
		f.logTransition(ctx, rep.ID, StateAwaitingDetails, slog.String("reason", string(r)))
	}
	return prompt, handled
}

// Skip handles /skip while awaiting details, storing the sentinel value.
func (f *Flow) Skip(ctx context.Context, rep Reporter) (Prompt, bool) {
	var (
		prompt  Prompt
		handled bool
	)
	f.sessions.Transition(rep.ID, func(sess *Session) *Session {
		if sess == nil || sess.State != StateAwaitingDetails {
			return sess
		}
		sess.Draft.Details = NoDetails
		sess.State = StateAwaitingConfirm
		prompt = Prompt{Text: summaryText(sess.Draft), Keyboard: confirmKeyboard()}
		handled = true
		return sess
	})
	if handled {
		f.logTransition(ctx, rep.ID, StateAwaitingConfirm)
	}
	return prompt, handled
}

// Confirm finalizes the draft: the session is cleared and the cooldown set
// before fan-out starts, so delivery never touches session state. A draft
// with a missing field aborts the session instead of producing a partial
// report.
func (f *Flow) Confirm(ctx context.Context, rep Reporter) (Prompt, bool) {
	var (
		completed Completed
		handled   bool
		broken    bool
	)
	f.sessions.Transition(rep.ID, func(sess *Session) *Session {
		if sess == nil || sess.State != StateAwaitingConfirm {
			return sess
		}
		handled = true
		if !sess.Draft.Complete() {
			broken = true
			return nil
		}
		now := f.now()
		completed = Completed{
			ID:          NewReportID(now),
			Reporter:    sess.Reporter,
			Draft:       sess.Draft,
			SubmittedAt: now,
		}
		f.cooldowns.Touch(rep.ID, now)
		return nil
	})
	if !handled {
		return Prompt{}, false
	}
	if broken {
		logger.Error(ctx, "report.flow", "flow.broken_draft",
			slog.Int64("user_id", rep.ID),
		)
		return Prompt{Text: brokenSessionText}, true
	}

	logger.Info(ctx, "report.flow", "flow.submitted",
		slog.Int64("user_id", rep.ID),
		slog.String("report_id", completed.ID),
		slog.String("report_type", string(completed.Draft.Type)),
		slog.String("reason", string(completed.Draft.Reason)),
	)
	f.dispatcher.Dispatch(ctx, completed)
	return Prompt{Text: submittedText}, true
}

// Cancel clears the session from any state. The second result is false when
// there was nothing to cancel.
func (f *Flow) Cancel(ctx context.Context, rep Reporter) (Prompt, bool) {
	had := false
	f.sessions.Transition(rep.ID, func(sess *Session) *Session {
		had = sess != nil
		return nil
	})
	if had {
		logger.Debug(ctx, "report.flow", "flow.cancelled",
			slog.Int64("user_id", rep.ID),
		)
	}
	return Prompt{Text: cancelledText}, had
}

func (f *Flow) logTransition(ctx context.Context, userID int64, next State, extra ...slog.Attr) {
	attrs := append([]slog.Attr{
		slog.Int64("user_id", userID),
		slog.String("state", string(next)),
	}, extra...)
	logger.Debug(ctx, "report.flow", "flow.transition", attrs...)
}
