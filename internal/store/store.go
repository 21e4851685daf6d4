// Package store persists validation runs for audit: each batch run with
// its config hash and aggregate decision, plus every per-method result.
package store

import "calibra/internal/score"

// DefaultDBPath is the default relative path for the SQLite DB.
// Open() creates the parent dir (e.g. .calibra).
const DefaultDBPath = ".calibra/calibra.db"

// Run is one persisted batch validation run.
type Run struct {
	ID         string `json:"id"`
	ConfigHash string `json:"config_hash"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	Total      int    `json:"total"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
	Aggregate  string `json:"aggregate"`
}

// Store is the persistence facade for validation runs. CLI and MCP use
// only this interface; implementation is SQLite or in-memory.
type Store interface {
	SaveReport(report score.ValidationReport) error
	ListRuns(limit int) ([]Run, error)
	GetReport(runID string) (*score.ValidationReport, error)
	Close() error
}
