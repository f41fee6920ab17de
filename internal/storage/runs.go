package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/salesflow/internal/common"
	"github.com/Veraticus/salesflow/internal/model"
)

// DefaultRunLimit is used by ListRuns when limit is not positive.
const DefaultRunLimit = 20

const runColumns = `id, started_at, source_file, COALESCE(region, ''), lines_read, parse_discarded,
	candidates, invalid, filtered_region, filtered_amount, final_count, enriched_matches, total_revenue`

// SaveRun records a pipeline run.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.RunRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs (
			id, started_at, source_file, region, lines_read, parse_discarded,
			candidates, invalid, filtered_region, filtered_amount, final_count,
			enriched_matches, total_revenue
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.StartedAt.UTC(), run.SourceFile, run.Region, run.LinesRead, run.ParseDiscarded,
		run.Candidates, run.Invalid, run.FilteredByRegion, run.FilteredByAmount, run.FinalCount,
		run.EnrichedMatches, run.TotalRevenue,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM pipeline_runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun returns a single run by id.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.RunRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM pipeline_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (model.RunRecord, error) {
	var run model.RunRecord
	err := row.Scan(
		&run.ID,
		&run.StartedAt,
		&run.SourceFile,
		&run.Region,
		&run.LinesRead,
		&run.ParseDiscarded,
		&run.Candidates,
		&run.Invalid,
		&run.FilteredByRegion,
		&run.FilteredByAmount,
		&run.FinalCount,
		&run.EnrichedMatches,
		&run.TotalRevenue,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return run, err
	}
	if err != nil {
		return run, fmt.Errorf("failed to scan run: %w", err)
	}
	return run, nil
}
