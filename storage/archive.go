package storage

import (
	"context"
	"errors"
	"time"

	"github.com/m3rciful/reportbot/report"
)

// ErrDisabled is returned by the disabled archive for read operations so
// handlers can fall back to placeholder replies.
var ErrDisabled = errors.New("report archive disabled")

// Entry is a stored report row.
type Entry struct {
	ReportID     string    `db:"report_id"`
	ReporterID   int64     `db:"reporter_id"`
	ReporterName string    `db:"reporter_name"`
	Type         string    `db:"report_type"`
	Target       string    `db:"target"`
	Reason       string    `db:"reason"`
	Details      string    `db:"details"`
	Verdict      *string   `db:"verdict"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

// Archive persists completed reports and serves /myreports. Writes are
// best-effort from the caller's point of view; the intake flow never blocks
// on the archive.
type Archive interface {
	Save(ctx context.Context, rep report.Completed) error
	RecentByReporter(ctx context.Context, reporterID int64, limit int) ([]Entry, error)
	SetVerdict(ctx context.Context, reportID, verdict string) error
}

// Disabled is the archive used when no database is configured. Every
// operation reports ErrDisabled so callers never mistake a discard for a
// persisted write.
type Disabled struct{}

// Save reports that the archive is disabled.
func (Disabled) Save(context.Context, report.Completed) error { return ErrDisabled }

// RecentByReporter reports that the archive is disabled.
func (Disabled) RecentByReporter(context.Context, int64, int) ([]Entry, error) {
	return nil, ErrDisabled
}

// SetVerdict reports that the archive is disabled.
func (Disabled) SetVerdict(context.Context, string, string) error { return ErrDisabled }
