package layers

import (
	"testing"
)

func TestCongruenceEvaluator_DeclaredEnsemble(t *testing.T) {
	e := NewCongruenceEvaluator(testDocs(t))

	// plan_scorer and indicator_extractor share the output range, the
	// semantic tags, and a valid fusion rule; with the fusion input
	// available the ensemble is fully congruent.
	req := Request{
		Subject: subject(t, "plan_scorer", "Q1"),
		Inputs:  []string{"plan_summary"},
	}
	ls, err := e.Evaluate(req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ls.Score != 1.0 {
		t.Errorf("score: got %v, want 1.0 (%s)", ls.Score, ls.Rationale)
	}
	if ls.Metadata["ensemble"] != "plan_quality" {
		t.Errorf("ensemble: got %v, want plan_quality", ls.Metadata["ensemble"])
	}
}

func TestCongruenceEvaluator_MissingFusionInput(t *testing.T) {
	e := NewCongruenceEvaluator(testDocs(t))

	req := Request{Subject: subject(t, "plan_scorer", "Q1")}
	ls, err := e.Evaluate(req)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ls.Score != 0.5 {
		t.Errorf("score: got %v, want 0.5", ls.Score)
	}
	if ls.Components["fusion"] != 0.5 {
		t.Errorf("fusion component: got %v, want 0.5", ls.Components["fusion"])
	}
}

func TestCongruenceEvaluator_Singleton(t *testing.T) {
	e := NewCongruenceEvaluator(testDocs(t))

	t.Run("registered", func(t *testing.T) {
		ls, err := e.Evaluate(Request{Subject: subject(t, "doc_ingestor", "")})
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if ls.Score != 1.0 {
			t.Errorf("score: got %v, want 1.0", ls.Score)
		}
	})

	t.Run("unregistered", func(t *testing.T) {
		ls, err := e.Evaluate(Request{Subject: subject(t, "ghost_method", "")})
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if ls.Score != 0.0 {
			t.Errorf("score: got %v, want 0.0", ls.Score)
		}
	})
}

func TestScoreEnsemble_Components(t *testing.T) {
	e := NewCongruenceEvaluator(testDocs(t))
	pair := []string{"plan_scorer", "indicator_extractor"}

	t.Run("invalid fusion rule zeroes the product", func(t *testing.T) {
		ls, err := e.ScoreEnsemble(pair, "telepathy", []string{"plan_summary"})
		if err != nil {
			t.Fatalf("ScoreEnsemble: %v", err)
		}
		if ls.Score != 0.0 {
			t.Errorf("score: got %v, want 0.0", ls.Score)
		}
		if ls.Components["fusion"] != 0.0 {
			t.Errorf("fusion component: got %v, want 0.0", ls.Components["fusion"])
		}
	})

	t.Run("undeclared output range fails scale", func(t *testing.T) {
		// doc_ingestor declares no output range.
		ls, err := e.ScoreEnsemble([]string{"plan_scorer", "doc_ingestor"},
			"weighted_average", []string{"plan_summary"})
		if err != nil {
			t.Fatalf("ScoreEnsemble: %v", err)
		}
		if ls.Components["scale"] != 0.0 {
			t.Errorf("scale component: got %v, want 0.0", ls.Components["scale"])
		}
		if ls.Score != 0.0 {
			t.Errorf("score: got %v, want 0.0", ls.Score)
		}
	})

	t.Run("partial tag overlap", func(t *testing.T) {
		// coverage_analyzer shares only "plan" with the scoring pair.
		ls, err := e.ScoreEnsemble([]string{"plan_scorer", "coverage_analyzer"},
			"weighted_average", []string{"plan_summary"})
		if err != nil {
			t.Fatalf("ScoreEnsemble: %v", err)
		}
		// Tags {scoring, plan} vs {coverage, plan}: Jaccard 1/3.
		got := ls.Components["semantic"]
		if got <= 0.33 || got >= 0.34 {
			t.Errorf("semantic component: got %v, want 1/3", got)
		}
	})

	t.Run("empty ensemble", func(t *testing.T) {
		ls, err := e.ScoreEnsemble(nil, "weighted_average", nil)
		if err != nil {
			t.Fatalf("ScoreEnsemble: %v", err)
		}
		if ls.Score != 0.0 {
			t.Errorf("score: got %v, want 0.0", ls.Score)
		}
	})
}
