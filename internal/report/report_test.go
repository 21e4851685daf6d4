package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"calibra/internal/score"
)

func testReport() score.ValidationReport {
	started := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	results := []score.ValidationResult{
		{MethodID: "doc_ingestor", Decision: score.DecisionPass, Score: 0.91, Threshold: 0.6},
		{
			MethodID:        "plan_scorer",
			Decision:        score.DecisionFail,
			Score:           0.52,
			Threshold:       0.7,
			FailureReason:   score.ReasonChainMissingInputs,
			FailureDetails:  "lowest layer chain scored 0.000",
			Recommendations: []string{"Verify upstream methods in the chain produced their outputs"},
		},
		{MethodID: "legacy_migrator", Decision: score.DecisionSkipped, Score: 1.0},
	}
	return score.CompileReport("run-1", "sha256:abc", results, started, started.Add(time.Second), 0.8)
}

func TestText(t *testing.T) {
	out := Text(testReport())

	for _, want := range []string{
		"Validation run run-1",
		"sha256:abc",
		"CONDITIONAL_PASS",
		"plan_scorer",
		"reason: chain_missing_inputs",
		"Verify upstream methods",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	// Passing results carry no failure block.
	if strings.Count(out, "reason:") != 1 {
		t.Errorf("expected exactly one failure block:\n%s", out)
	}
}

func TestCertificates(t *testing.T) {
	certs := Certificates(testReport())
	if len(certs) != 3 {
		t.Fatalf("certificates: got %d, want 3", len(certs))
	}
	for _, c := range certs {
		if c.RunID != "run-1" || c.ConfigHash != "sha256:abc" {
			t.Errorf("certificate identity: %+v", c)
		}
	}
	if certs[1].Reason != score.ReasonChainMissingInputs {
		t.Errorf("reason: got %q", certs[1].Reason)
	}
	if len(certs[0].Remediation) != 0 {
		t.Errorf("pass certificate should carry no remediation: %v", certs[0].Remediation)
	}
}

func TestJSON(t *testing.T) {
	out, err := JSON(testReport())
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var decoded score.ValidationReport
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.RunID != "run-1" || decoded.Aggregate != score.DecisionConditionalPass {
		t.Errorf("decoded: run %q aggregate %q", decoded.RunID, decoded.Aggregate)
	}
	if len(decoded.Results) != 3 {
		t.Errorf("results: got %d", len(decoded.Results))
	}
}
