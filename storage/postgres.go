package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/reportbot/report"
)

// Postgres is the sqlx-backed archive. Schema is applied by migrations at
// startup.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

const insertReportQuery = `
INSERT INTO reports (report_id, reporter_id, reporter_name, report_type, target, reason, details, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Save stores a completed report.
func (p *Postgres) Save(ctx context.Context, rep report.Completed) error {
	_, err := p.db.ExecContext(ctx, insertReportQuery,
		rep.ID,
		rep.Reporter.ID,
		rep.Reporter.FullName,
		string(rep.Draft.Type),
		rep.Draft.Target,
		string(rep.Draft.Reason),
		rep.Draft.Details,
		rep.SubmittedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", rep.ID, err)
	}
	return nil
}

const recentReportsQuery = `
SELECT report_id, reporter_id, reporter_name, report_type, target, reason, details, verdict, submitted_at
FROM reports
WHERE reporter_id = $1
ORDER BY submitted_at DESC
LIMIT $2`

// RecentByReporter returns the reporter's latest reports, newest first.
func (p *Postgres) RecentByReporter(ctx context.Context, reporterID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}
	var entries []Entry
	if err := p.db.SelectContext(ctx, &entries, recentReportsQuery, reporterID, limit); err != nil {
		return nil, fmt.Errorf("select reports for %d: %w", reporterID, err)
	}
	return entries, nil
}

const setVerdictQuery = `UPDATE reports SET verdict = $2 WHERE report_id = $1`

// SetVerdict records the admin decision for a report.
func (p *Postgres) SetVerdict(ctx context.Context, reportID, verdict string) error {
	if _, err := p.db.ExecContext(ctx, setVerdictQuery, reportID, verdict); err != nil {
		return fmt.Errorf("set verdict for %s: %w", reportID, err)
	}
	return nil
}
