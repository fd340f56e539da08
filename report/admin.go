package report

import (
	"context"
	"log/slog"
	"sync"

	"github.com/m3rciful/reportbot/core/logger"
)

// Verdict is an admin's decision on a report.
type Verdict string

const (
	VerdictResolved Verdict = "resolved"
	VerdictRejected Verdict = "rejected"
)

var verdictAnnotations = map[Verdict]string{
	VerdictResolved: "✅ **Report resolved by admin**",
	VerdictRejected: "❌ **Report rejected by admin**",
}

// Annotation returns the line appended to the report message for the verdict.
func (v Verdict) Annotation() string {
	return verdictAnnotations[v]
}

// VerdictStore persists verdicts; optional and best-effort.
type VerdictStore interface {
	SetVerdict(ctx context.Context, reportID, verdict string) error
}

// AdminDesk handles the resolve/reject affordances on delivered reports. It
// carries no session state. The first verdict per report wins; repeated
// presses are ignored so the report message is annotated at most once.
type AdminDesk struct {
	mu       sync.Mutex
	verdicts map[string]Verdict
	store    VerdictStore
}

// NewAdminDesk constructs the desk. store may be nil.
func NewAdminDesk(store VerdictStore) *AdminDesk {
	return &AdminDesk{
		verdicts: make(map[string]Verdict),
		store:    store,
	}
}

// Decide records the verdict for a report. The second result is false when a
// verdict was already set, in which case the existing verdict is returned.
func (d *AdminDesk) Decide(ctx context.Context, reportID string, v Verdict) (Verdict, bool) {
	if _, ok := verdictAnnotations[v]; !ok || reportID == "" {
		return "", false
	}

	d.mu.Lock()
	if existing, ok := d.verdicts[reportID]; ok {
		d.mu.Unlock()
		logger.Debug(ctx, "report.admin", "verdict.repeat",
			slog.String("report_id", reportID),
			slog.String("status", "skip"),
		)
		return existing, false
	}
	d.verdicts[reportID] = v
	d.mu.Unlock()

	if d.store != nil {
		if err := d.store.SetVerdict(ctx, reportID, string(v)); err != nil {
			logger.Warn(ctx, "report.admin", "verdict.store_failed",
				slog.String("report_id", reportID),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Info(ctx, "report.admin", "verdict.set",
		slog.String("report_id", reportID),
		slog.String("outcome", "ok"),
	)
	return v, true
}
