package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"calibra/internal/score"
)

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu      sync.RWMutex
	reports map[string]score.ValidationReport
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{reports: make(map[string]score.ValidationReport)}
}

// SaveReport implements Store.
func (s *MemStore) SaveReport(report score.ValidationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.RunID]; exists {
		return fmt.Errorf("run %s already saved", report.RunID)
	}
	s.reports[report.RunID] = report
	return nil
}

// ListRuns implements Store.
func (s *MemStore) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]Run, 0, len(s.reports))
	for _, r := range s.reports {
		runs = append(runs, Run{
			ID:         r.RunID,
			ConfigHash: r.ConfigHash,
			StartedAt:  r.StartedAt.UTC().Format(time.RFC3339Nano),
			FinishedAt: r.FinishedAt.UTC().Format(time.RFC3339Nano),
			Total:      r.Total,
			Passed:     r.Passed,
			Failed:     r.Failed,
			Skipped:    r.Skipped,
			Aggregate:  string(r.Aggregate),
		})
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt > runs[j].StartedAt })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetReport implements Store.
func (s *MemStore) GetReport(runID string) (*score.ValidationReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[runID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }
