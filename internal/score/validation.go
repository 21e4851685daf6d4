package score

import "time"

// Decision is the outcome of validating one method, or a whole batch.
type Decision string

const (
	DecisionPass            Decision = "PASS"
	DecisionFail            Decision = "FAIL"
	DecisionConditionalPass Decision = "CONDITIONAL_PASS"
	DecisionSkipped         Decision = "SKIPPED"
)

// FailureReason classifies why a method failed validation, derived from
// its lowest-scoring layer.
type FailureReason string

const (
	ReasonBaseQualityLow         FailureReason = "base_quality_low"
	ReasonChainMissingInputs     FailureReason = "chain_missing_inputs"
	ReasonCongruenceInconsistent FailureReason = "congruence_inconsistent"
	ReasonUnitQualityLow         FailureReason = "unit_quality_low"
	ReasonContextualIncompatible FailureReason = "contextual_incompatible"
	ReasonGovernanceFail         FailureReason = "governance_fail"
	ReasonUnknown                FailureReason = "unknown"
)

// ValidationResult is the decision for one method in one context.
type ValidationResult struct {
	MethodID        string                 `json:"method_id"`
	Decision        Decision               `json:"decision"`
	Score           float64                `json:"score"`
	Threshold       float64                `json:"threshold"`
	FailureReason   FailureReason          `json:"failure_reason,omitempty"`
	FailureDetails  string                 `json:"failure_details,omitempty"`
	LayerScores     map[LayerID]LayerScore `json:"layer_scores,omitempty"`
	Recommendations []string               `json:"recommendations,omitempty"`
}

// ValidationReport is the roll-up of one batch run.
type ValidationReport struct {
	RunID      string             `json:"run_id"`
	ConfigHash string             `json:"config_hash"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Results    []ValidationResult `json:"results"`

	Total     int      `json:"total"`
	Passed    int      `json:"passed"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	PassRatio float64  `json:"pass_ratio"`
	Aggregate Decision `json:"aggregate"`
}

// CompileReport counts decisions and derives the aggregate: no failures
// means PASS, a pass ratio of at least conditionalRatio means
// CONDITIONAL_PASS, anything less FAIL. A batch with nothing evaluable is
// SKIPPED.
func CompileReport(runID, configHash string, results []ValidationResult, started, finished time.Time, conditionalRatio float64) ValidationReport {
	r := ValidationReport{
		RunID:      runID,
		ConfigHash: configHash,
		StartedAt:  started,
		FinishedAt: finished,
		Results:    results,
		Total:      len(results),
	}
	for _, res := range results {
		switch res.Decision {
		case DecisionPass:
			r.Passed++
		case DecisionFail:
			r.Failed++
		case DecisionSkipped:
			r.Skipped++
		}
	}
	evaluable := r.Passed + r.Failed
	if evaluable == 0 {
		r.Aggregate = DecisionSkipped
		return r
	}
	r.PassRatio = float64(r.Passed) / float64(evaluable)
	switch {
	case r.Failed == 0:
		r.Aggregate = DecisionPass
	case r.PassRatio >= conditionalRatio:
		r.Aggregate = DecisionConditionalPass
	default:
		r.Aggregate = DecisionFail
	}
	return r
}
