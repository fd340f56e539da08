package report

import (
	"context"
	"log/slog"

	"github.com/m3rciful/reportbot/core/logger"
)

// Courier delivers rendered report messages to external recipients. The bot
// transport implements it; tests substitute fakes.
type Courier interface {
	// ToChannel delivers the report text to the notification channel.
	ToChannel(ctx context.Context, channel, text string) error
	// ToAdmin delivers the report text to one admin, attaching the
	// resolve/reject affordances for the given report id.
	ToAdmin(ctx context.Context, adminID int64, text, reportID string) error
}

// Archive receives completed reports for long-term storage. Dispatch treats
// it as best-effort: a failing archive never affects the user-facing flow.
type Archive interface {
	Save(ctx context.Context, rep Completed) error
}

// DispatcherOptions configures fan-out targets.
type DispatcherOptions struct {
	Courier   Courier
	Archive   Archive // optional
	ChannelID string  // optional
	AdminIDs  []int64
}

// Dispatcher fans a completed report out to the notification channel and each
// configured admin. Every delivery failure is logged and isolated from the
// others; the submitter always sees success.
type Dispatcher struct {
	courier Courier
	archive Archive
	channel string
	admins  []int64
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	return &Dispatcher{
		courier: opts.Courier,
		archive: opts.Archive,
		channel: opts.ChannelID,
		admins:  opts.AdminIDs,
	}
}

// DispatchResult summarizes a fan-out for logging and tests.
type DispatchResult struct {
	Archived    bool
	ChannelSent bool
	AdminsSent  int
	Failed      int
}

// Dispatch renders the report once and delivers it to every configured
// recipient.
func (d *Dispatcher) Dispatch(ctx context.Context, rep Completed) DispatchResult {
	var res DispatchResult
	text := rep.AdminText()

	if d.archive != nil {
		if err := d.archive.Save(ctx, rep); err != nil {
			logger.Warn(ctx, "report.dispatch", "archive.save_failed",
				slog.String("report_id", rep.ID),
				slog.String("err", err.Error()),
			)
		} else {
			res.Archived = true
		}
	}

	if d.channel != "" {
		if err := d.courier.ToChannel(ctx, d.channel, text); err != nil {
			res.Failed++
			logger.Error(ctx, "report.dispatch", "channel.send_failed",
				slog.String("report_id", rep.ID),
				slog.String("channel", d.channel),
				slog.String("err", err.Error()),
			)
		} else {
			res.ChannelSent = true
		}
	}

	for _, adminID := range d.admins {
		if err := d.courier.ToAdmin(ctx, adminID, text, rep.ID); err != nil {
			res.Failed++
			logger.Error(ctx, "report.dispatch", "admin.send_failed",
				slog.String("report_id", rep.ID),
				slog.Int64("chat_id", adminID),
				slog.String("err", err.Error()),
			)
			continue
		}
		res.AdminsSent++
	}

	logger.Info(ctx, "report.dispatch", "dispatch.done",
		slog.String("report_id", rep.ID),
		slog.Int("admins", res.AdminsSent),
		slog.Int("failed", res.Failed),
		slog.Bool("delivered", res.ChannelSent || res.AdminsSent > 0),
	)
	return res
}
