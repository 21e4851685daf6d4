package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"calibra/internal/score"
)

func sampleReport(runID string, started time.Time) score.ValidationReport {
	results := []score.ValidationResult{
		{
			MethodID:  "doc_ingestor",
			Decision:  score.DecisionPass,
			Score:     0.91,
			Threshold: 0.6,
			LayerScores: map[score.LayerID]score.LayerScore{
				score.LayerBase:  {Layer: score.LayerBase, Score: 0.87},
				score.LayerChain: {Layer: score.LayerChain, Score: 1.0},
			},
		},
		{
			MethodID:        "plan_scorer",
			Decision:        score.DecisionFail,
			Score:           0.52,
			Threshold:       0.7,
			FailureReason:   score.ReasonChainMissingInputs,
			FailureDetails:  "lowest layer chain scored 0.000",
			Recommendations: []string{"Verify upstream methods in the chain produced their outputs"},
		},
	}
	return score.CompileReport(runID, "sha256:abc", results, started, started.Add(2*time.Second), 0.8)
}

func TestSqlStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "calibra.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	started := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	want := sampleReport("run-1", started)
	if err := s.SaveReport(want); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, err := s.GetReport("run-1")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got == nil {
		t.Fatal("GetReport returned nil for a saved run")
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestSqlStore_ListRunsNewestFirst(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "calibra.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := s.SaveReport(sampleReport(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveReport(%s): %v", id, err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d, want 2", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("order: got %s, %s; want run-c, run-b", runs[0].ID, runs[1].ID)
	}
	if runs[0].Aggregate != string(score.DecisionConditionalPass) {
		t.Errorf("aggregate: got %q", runs[0].Aggregate)
	}
}

func TestSqlStore_GetReportUnknownRun(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "calibra.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	got, err := s.GetReport("no-such-run")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil report, got %+v", got)
	}
}

func TestSqlStore_DuplicateRunRejected(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "calibra.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	report := sampleReport("run-1", time.Now())
	if err := s.SaveReport(report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if err := s.SaveReport(report); err == nil {
		t.Error("expected error saving the same run twice")
	}
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	first := sampleReport("run-1", base)
	second := sampleReport("run-2", base.Add(time.Hour))
	if err := s.SaveReport(first); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if err := s.SaveReport(second); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if err := s.SaveReport(first); err == nil {
		t.Error("expected error for duplicate run id")
	}

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-2" {
		t.Errorf("runs: got %+v", runs)
	}

	got, err := s.GetReport("run-1")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if diff := cmp.Diff(first, *got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	missing, err := s.GetReport("run-9")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown run, got %+v", missing)
	}
}
