package roles

import (
	"testing"

	"calibra/internal/config"
	"calibra/internal/config/configtest"
	"calibra/internal/score"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	dir := configtest.Write(t, configtest.Valid())
	docs, err := config.NewStore(dir).Documents()
	if err != nil {
		t.Fatalf("load test configuration: %v", err)
	}
	r, err := NewResolver(docs)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestLookup_Precedence(t *testing.T) {
	r := testResolver(t)

	t.Run("canonical", func(t *testing.T) {
		m, ok := r.Lookup("plan_scorer")
		if !ok || m.Canonical != "plan_scorer" {
			t.Fatalf("Lookup(plan_scorer): ok=%v m=%v", ok, m.Canonical)
		}
	})

	t.Run("class.method", func(t *testing.T) {
		m, ok := r.Lookup("PlanScorer.score")
		if !ok || m.Canonical != "plan_scorer" {
			t.Fatalf("Lookup(PlanScorer.score): ok=%v m=%v", ok, m.Canonical)
		}
	})

	t.Run("substring", func(t *testing.T) {
		m, ok := r.Lookup("legacy_plan_scorer_v2")
		if !ok || m.Canonical != "plan_scorer" {
			t.Fatalf("Lookup(legacy_plan_scorer_v2): ok=%v m=%v", ok, m.Canonical)
		}
	})

	t.Run("miss", func(t *testing.T) {
		if _, ok := r.Lookup("unrelated"); ok {
			t.Error("expected a lookup miss")
		}
	})
}

func TestResolve_UnknownDefaultsToCore(t *testing.T) {
	r := testResolver(t)

	if got := r.Resolve("plan_scorer"); got != score.RoleAnalyzer {
		t.Errorf("plan_scorer: got %q, want analyzer", got)
	}
	if got := r.Resolve("format_helper"); got != score.RoleUtility {
		t.Errorf("format_helper: got %q, want utility", got)
	}
	if got := r.Resolve("never_registered"); got != score.RoleCore {
		t.Errorf("unknown method: got %q, want core", got)
	}
}

func TestRequiredLayers_ExecutorOverride(t *testing.T) {
	r := testResolver(t)

	// D2_Q5 matches the executor pattern and must pass all eight layers no
	// matter what the catalog would say.
	if got := len(r.RequiredLayers("D2_Q5")); got != 8 {
		t.Errorf("executor: got %d layers, want 8", got)
	}
	if !r.IsExecutor("D2_Q5") {
		t.Error("D2_Q5 should match the executor pattern")
	}
	if r.IsExecutor("plan_scorer") {
		t.Error("plan_scorer should not match the executor pattern")
	}

	if got := len(r.RequiredLayers("format_helper")); got != 3 {
		t.Errorf("utility: got %d layers, want 3", got)
	}
	if got := len(r.RequiredLayers("doc_ingestor")); got != 4 {
		t.Errorf("ingest: got %d layers, want 4", got)
	}
	if got := len(r.RequiredLayers("mystery_method")); got != 8 {
		t.Errorf("unknown: got %d layers, want 8", got)
	}
}
