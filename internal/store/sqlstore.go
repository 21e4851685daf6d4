package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"calibra/internal/score"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	config_hash TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	total       INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	pass_ratio  REAL NOT NULL,
	aggregate   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	method_id       TEXT NOT NULL,
	decision        TEXT NOT NULL,
	score           REAL NOT NULL,
	threshold       REAL NOT NULL,
	failure_reason  TEXT,
	failure_details TEXT,
	layer_scores    TEXT,
	recommendations TEXT,
	PRIMARY KEY (run_id, method_id)
);
CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
`

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and ensures the schema.
// Creates the parent directory (e.g. .calibra) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SqlStore{db: db}, nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error { return s.db.Close() }

// SaveReport persists the run header and every per-method result in one
// transaction.
func (s *SqlStore) SaveReport(report score.ValidationReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO runs(id, config_hash, started_at, finished_at, total, passed, failed, skipped, pass_ratio, aggregate)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.ConfigHash,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.FinishedAt.UTC().Format(time.RFC3339Nano),
		report.Total, report.Passed, report.Failed, report.Skipped,
		report.PassRatio, string(report.Aggregate))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", report.RunID, err)
	}

	for _, r := range report.Results {
		layerJSON, err := json.Marshal(r.LayerScores)
		if err != nil {
			return fmt.Errorf("marshal layer scores for %s: %w", r.MethodID, err)
		}
		recJSON, err := json.Marshal(r.Recommendations)
		if err != nil {
			return fmt.Errorf("marshal recommendations for %s: %w", r.MethodID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO results(run_id, method_id, decision, score, threshold, failure_reason, failure_details, layer_scores, recommendations)
			 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, r.MethodID, string(r.Decision), r.Score, r.Threshold,
			string(r.FailureReason), r.FailureDetails, string(layerJSON), string(recJSON))
		if err != nil {
			return fmt.Errorf("insert result %s/%s: %w", report.RunID, r.MethodID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", report.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SqlStore) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, config_hash, started_at, finished_at, total, passed, failed, skipped, aggregate
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ConfigHash, &r.StartedAt, &r.FinishedAt,
			&r.Total, &r.Passed, &r.Failed, &r.Skipped, &r.Aggregate); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetReport rebuilds a full report for one run. Returns nil when the run
// is unknown.
func (s *SqlStore) GetReport(runID string) (*score.ValidationReport, error) {
	var report score.ValidationReport
	var started, finished, aggregate string
	err := s.db.QueryRow(
		`SELECT id, config_hash, started_at, finished_at, total, passed, failed, skipped, pass_ratio, aggregate
		 FROM runs WHERE id = ?`, runID).
		Scan(&report.RunID, &report.ConfigHash, &started, &finished,
			&report.Total, &report.Passed, &report.Failed, &report.Skipped,
			&report.PassRatio, &aggregate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	report.Aggregate = score.Decision(aggregate)
	if report.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if report.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT method_id, decision, score, threshold, failure_reason, failure_details, layer_scores, recommendations
		 FROM results WHERE run_id = ? ORDER BY method_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results %s: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r score.ValidationResult
		var decision, reason, layerJSON, recJSON string
		if err := rows.Scan(&r.MethodID, &decision, &r.Score, &r.Threshold,
			&reason, &r.FailureDetails, &layerJSON, &recJSON); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Decision = score.Decision(decision)
		r.FailureReason = score.FailureReason(reason)
		if layerJSON != "" {
			if err := json.Unmarshal([]byte(layerJSON), &r.LayerScores); err != nil {
				return nil, fmt.Errorf("unmarshal layer scores for %s: %w", r.MethodID, err)
			}
		}
		if recJSON != "" {
			if err := json.Unmarshal([]byte(recJSON), &r.Recommendations); err != nil {
				return nil, fmt.Errorf("unmarshal recommendations for %s: %w", r.MethodID, err)
			}
		}
		report.Results = append(report.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &report, nil
}
