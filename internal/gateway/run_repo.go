package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rental-reconciliation/internal/domain"
)

// RunRepo archives finished reports. It doubles as a report sink.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Publish stores report under its run id.
func (r *RunRepo) Publish(ctx context.Context, report *domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reconciliation_runs (id, generated_at, matched, needs_review, unmatched, payload)
		VALUES (?,?,?,?,?,?)`,
		report.RunID, report.GeneratedAt.UTC().Format(time.RFC3339),
		report.Summary.Matched, report.Summary.NeedsReview,
		report.Summary.UnmatchedTransactions+report.Summary.UnmatchedInbound,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns run headers, newest first.
func (r *RunRepo) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, generated_at, matched, needs_review, unmatched
		 FROM reconciliation_runs ORDER BY generated_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.RunSummary, 0)
	for rows.Next() {
		var (
			run         domain.RunSummary
			generatedAt string
		)
		if err := rows.Scan(&run.RunID, &generatedAt, &run.Matched, &run.NeedsReview, &run.Unmatched); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt); err != nil {
			return nil, fmt.Errorf("run %s generated_at: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get loads an archived report. Unknown ids return an error matching domain.ErrNotFound.
func (r *RunRepo) Get(ctx context.Context, id string) (*domain.Report, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, "SELECT payload FROM reconciliation_runs WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &report, nil
}
