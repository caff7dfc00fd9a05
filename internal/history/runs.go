package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamelink/internal/catalog"
)

// ErrRunNotFound reports an unknown run identifier.
var ErrRunNotFound = errors.New("run not found")

const runColumns = "id, started_at, finished_at, input_a, input_a_digest, input_b, input_b_digest, strategy, match_threshold, review_threshold, total, matched, a_only, b_only, excluded, conflicts, output_path, output_format"

// RecordRun stores run and its unified records in one transaction. A blank
// run ID is replaced with a new UUID; the stored run is returned.
func (s *Store) RecordRun(ctx context.Context, run Run, records []catalog.UnifiedRecord) (*Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	run.Tally(records)

	rows := make([][]any, len(records))
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal record %d: %w", i, err)
		}
		rows[i] = []any{run.ID, i, string(rec.Kind), rec.GameTitle, nullableFloat(rec.MatchConfidence), nullableFloat(rec.CombinedScore), string(data)}
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			formatTime(run.StartedAt),
			formatTime(run.FinishedAt),
			nullableString(run.InputA.Path),
			nullableString(run.InputA.Digest),
			nullableString(run.InputB.Path),
			nullableString(run.InputB.Digest),
			nullableString(run.Strategy),
			run.MatchThreshold,
			run.ReviewThreshold,
			run.Total,
			run.Matched,
			run.AOnly,
			run.BOnly,
			run.Excluded,
			run.Conflicts,
			nullableString(run.OutputPath),
			nullableString(run.OutputFormat),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_records (run_id, position, kind, game_title, match_confidence, combined_score, record_json)
            VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare record insert: %w", err)
		}
		defer stmt.Close()
		for _, args := range rows {
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert record %v: %w", args[1], err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun fetches one run by ID. A unique ID prefix is accepted.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id LIMIT 2`, id, id+"%")
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.ID == id {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunRecords returns the unified records of a run in published order.
func (s *Store) RunRecords(ctx context.Context, runID string) ([]catalog.UnifiedRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_json FROM run_records WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run records: %w", err)
	}
	defer rows.Close()

	var records []catalog.UnifiedRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		var rec catalog.UnifiedRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode run record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRun removes a run and its records.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin delete tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM run_records WHERE run_id = ?`, id); err != nil {
			return fmt.Errorf("delete run records: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return tx.Commit()
	})
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run                      Run
		startedRaw, finishedRaw  string
		inputA, digestA          sql.NullString
		inputB, digestB          sql.NullString
		strategy                 sql.NullString
		matchTh, reviewTh        sql.NullFloat64
		outputPath, outputFormat sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&inputA,
		&digestA,
		&inputB,
		&digestB,
		&strategy,
		&matchTh,
		&reviewTh,
		&run.Total,
		&run.Matched,
		&run.AOnly,
		&run.BOnly,
		&run.Excluded,
		&run.Conflicts,
		&outputPath,
		&outputFormat,
	); err != nil {
		return nil, err
	}
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw)
	run.InputA = Input{Path: inputA.String, Digest: digestA.String}
	run.InputB = Input{Path: inputB.String, Digest: digestB.String}
	run.Strategy = strategy.String
	run.MatchThreshold = matchTh.Float64
	run.ReviewThreshold = reviewTh.Float64
	run.OutputPath = outputPath.String
	run.OutputFormat = outputFormat.String
	return &run, nil
}

// timeLayout has fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
