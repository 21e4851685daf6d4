package layers

import (
	"testing"

	"calibra/internal/score"
)

func TestContextualEvaluators_DeclaredLevels(t *testing.T) {
	docs := testDocs(t)

	cases := []struct {
		name  string
		eval  Evaluator
		want  float64
		level string
	}{
		{"primary question", NewQuestionEvaluator(docs), 1.0, "primary"},
		{"primary dimension", NewDimensionEvaluator(docs), 1.0, "primary"},
		{"secondary policy", NewPolicyEvaluator(docs), 0.7, "secondary"},
	}
	req := Request{Subject: subject(t, "plan_scorer", "Q1")}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ls, err := tc.eval.Evaluate(req)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if ls.Score != tc.want {
				t.Errorf("score: got %v, want %v", ls.Score, tc.want)
			}
			if ls.Metadata["level"] != tc.level {
				t.Errorf("level: got %v, want %s", ls.Metadata["level"], tc.level)
			}
		})
	}
}

func TestContextualEvaluator_UndeclaredIdentifier(t *testing.T) {
	docs := testDocs(t)
	e := NewQuestionEvaluator(docs)

	ctx, err := score.NewContext("Q77", "DIM01", "PA01", 0.8)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	ls, err := e.Evaluate(Request{Subject: score.CalibrationSubject{MethodID: "plan_scorer", Context: ctx}})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ls.Score != docs.Thresholds.Penalties.UndeclaredCompatibility {
		t.Errorf("score: got %v, want penalty %v", ls.Score, docs.Thresholds.Penalties.UndeclaredCompatibility)
	}
	if ls.Metadata["level"] != "undeclared" {
		t.Errorf("level: got %v, want undeclared", ls.Metadata["level"])
	}
}

func TestContextualEvaluator_UnregisteredMethod(t *testing.T) {
	docs := testDocs(t)
	e := NewDimensionEvaluator(docs)

	ls, err := e.Evaluate(Request{Subject: subject(t, "format_helper", "")})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ls.Score != docs.Thresholds.Penalties.UndeclaredCompatibility {
		t.Errorf("score: got %v, want penalty %v", ls.Score, docs.Thresholds.Penalties.UndeclaredCompatibility)
	}
	if ls.Metadata["registered"] != false {
		t.Error("expected registered=false")
	}
}
