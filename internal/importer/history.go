package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// History persists finished runs so operators can audit past imports and
// review which rows failed. It stores a summary per run plus one record
// per failed row; succeeded rows are not kept.
type History struct {
	pool *pgxpool.Pool
}

// NewHistory creates a History backed by the given pool.
func NewHistory(pool *pgxpool.Pool) *History {
	return &History{pool: pool}
}

// RunSummary is one persisted run as listed by ListRuns.
type RunSummary struct {
	RunID        string    `json:"runId"`
	FileName     string    `json:"fileName,omitempty"`
	TotalRows    int       `json:"totalRows"`
	Succeeded    int       `json:"succeeded"`
	Failed       int       `json:"failed"`
	NotAttempted int       `json:"notAttempted,omitempty"`
	DurationMs   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecordRun stores a finished run and its failed rows in one transaction.
func (h *History) RecordRun(ctx context.Context, report ImportReport) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID pgtype.UUID
	if err := runID.Scan(report.RunID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", report.RunID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO import_runs
			(id, file_name, total_rows, succeeded, failed, not_attempted, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		runID, report.FileName, report.TotalRows,
		report.Succeeded, report.Failed, report.NotAttempted,
		report.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	var failures [][]any
	for _, o := range report.Outcomes {
		if o.Status != RowFailed {
			continue
		}
		failures = append(failures, []any{runID, o.RowIndex, o.ProductName, o.Reason})
	}

	if len(failures) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"import_row_failures"},
			[]string{"run_id", "row_index", "product_name", "reason"},
			pgx.CopyFromRows(failures),
		)
		if err != nil {
			return fmt.Errorf("copy row failures: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit history tx: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *History) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := h.pool.Query(ctx, `
		SELECT id, file_name, total_rows, succeeded, failed, not_attempted,
		       duration_ms, created_at
		FROM import_runs
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s  RunSummary
			id pgtype.UUID
		)
		err := rows.Scan(&id, &s.FileName, &s.TotalRows, &s.Succeeded,
			&s.Failed, &s.NotAttempted, &s.DurationMs, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.RunID = uuidString(id)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// RunFailure is one failed row of a persisted run.
type RunFailure struct {
	RowIndex    int    `json:"rowIndex"`
	ProductName string `json:"productName,omitempty"`
	Reason      string `json:"reason"`
}

// ListFailures returns the failed rows of one persisted run, in row order.
func (h *History) ListFailures(ctx context.Context, runID string) ([]RunFailure, error) {
	var id pgtype.UUID
	if err := id.Scan(runID); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
	}

	rows, err := h.pool.Query(ctx, `
		SELECT row_index, product_name, reason
		FROM import_row_failures
		WHERE run_id = $1
		ORDER BY row_index`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var out []RunFailure
	for rows.Next() {
		var f RunFailure
		if err := rows.Scan(&f.RowIndex, &f.ProductName, &f.Reason); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x",
		id.Bytes[0:4], id.Bytes[4:6], id.Bytes[6:8],
		id.Bytes[8:10], id.Bytes[10:16])
}
