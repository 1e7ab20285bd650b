package collector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sycobuny/errtracker/pkg/tracker"
)

// Store persists reports and their records.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open collector database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// StoredError is one persisted error record, flattened for listing.
type StoredError struct {
	ID         int64     `json:"id"`
	ReportID   string    `json:"report_id"`
	Seq        int       `json:"seq"`
	Message    string    `json:"message"`
	Filename   string    `json:"filename,omitempty"`
	Line       int       `json:"line,omitempty"`
	Stack      string    `json:"stack_trace,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	PageHost   string    `json:"page_host,omitempty"`
	PageRoute  string    `json:"page_route,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitzero"`
}

// SaveReport persists a report and all of its records in one transaction,
// returning the generated report ID.
func (s *Store) SaveReport(ctx context.Context, report *tracker.Report) (string, error) {
	reportID := uuid.NewString()

	err := RetryWithBackoff(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO reports (id, tracker_version, report_version, error_count)
			 VALUES (?, ?, ?, ?)`,
			reportID, report.TrackerVersion, report.ReportVersion, len(report.ErrorsTracked))
		if err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}

		for seq, rec := range report.ErrorsTracked {
			if rec == nil {
				continue
			}
			var host, route string
			if rec.Page != nil {
				host, route = rec.Page.Host, rec.Page.Route
			}
			raw := ""
			if rec.Raw != nil {
				if b, err := json.Marshal(rec.Raw); err == nil {
					raw = string(b)
				}
			}
			var occurred any
			if !rec.Timestamp.IsZero() {
				occurred = rec.Timestamp.UTC()
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO report_errors
				 (report_id, seq, message, filename, line, stack_trace, kind, page_host, page_route, occurred_at, raw)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				reportID, seq, rec.Message, rec.Filename, rec.Line, rec.Stack,
				rec.EventType, host, route, occurred, raw)
			if err != nil {
				return fmt.Errorf("failed to insert record: %w", err)
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return "", err
	}

	return reportID, nil
}

// ListErrors returns stored records, most recent first, up to limit.
func (s *Store) ListErrors(ctx context.Context, limit int) ([]StoredError, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, seq, message, filename, line, stack_trace, kind, page_host, page_route, occurred_at
		 FROM report_errors
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query errors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StoredError
	for rows.Next() {
		var e StoredError
		var occurred sql.NullTime
		if err := rows.Scan(&e.ID, &e.ReportID, &e.Seq, &e.Message, &e.Filename,
			&e.Line, &e.Stack, &e.Kind, &e.PageHost, &e.PageRoute, &occurred); err != nil {
			return nil, fmt.Errorf("failed to scan error row: %w", err)
		}
		if occurred.Valid {
			e.OccurredAt = occurred.Time
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate error rows: %w", err)
	}

	return out, nil
}

// CountErrors returns how many records are stored in total.
func (s *Store) CountErrors(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM report_errors`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count errors: %w", err)
	}
	return n, nil
}

// CountReports returns how many reports have been received.
func (s *Store) CountReports(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}
