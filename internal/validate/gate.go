package validate

import (
	"fmt"

	"calibra/internal/layers"
	"calibra/internal/score"
)

// GateError reports a method blocked by the calibration gate.
type GateError struct {
	Result score.ValidationResult
}

func (e *GateError) Error() string {
	return fmt.Sprintf("method %s blocked by calibration gate: score %.3f below threshold %.3f (%s)",
		e.Result.MethodID, e.Result.Score, e.Result.Threshold, e.Result.FailureReason)
}

// Gate is the check an orchestrator calls before running a unit. SKIPPED
// and PASS let the unit run; FAIL blocks it with a GateError carrying the
// full result.
func (v *Validator) Gate(req layers.Request, override *float64) (score.ValidationResult, error) {
	result := v.Validate(req, override)
	if result.Decision == score.DecisionFail {
		return result, &GateError{Result: result}
	}
	return result, nil
}
