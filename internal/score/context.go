package score

import (
	"fmt"
	"regexp"
)

// Canonical identifier patterns. Dimension and policy codes are fixed-width;
// anything else is rejected at construction, not downstream.
var (
	dimensionRe = regexp.MustCompile(`^DIM[0-9]{2}$`)
	policyRe    = regexp.MustCompile(`^PA[0-9]{2}$`)
	questionRe  = regexp.MustCompile(`^Q[0-9]+$`)
)

// Context is the (question, dimension, policy-area, unit-quality) tuple a
// method is evaluated against. QuestionID may be empty (no question axis).
type Context struct {
	QuestionID  string  `json:"question_id,omitempty" yaml:"question_id,omitempty"`
	DimensionID string  `json:"dimension_id" yaml:"dimension_id"`
	PolicyID    string  `json:"policy_id" yaml:"policy_id"`
	UnitQuality float64 `json:"unit_quality" yaml:"unit_quality"`
}

// NewContext validates identifier patterns and the unit-quality range.
func NewContext(questionID, dimensionID, policyID string, unitQuality float64) (Context, error) {
	if questionID != "" && !questionRe.MatchString(questionID) {
		return Context{}, fmt.Errorf("question id %q does not match canonical pattern Qnnn", questionID)
	}
	if !dimensionRe.MatchString(dimensionID) {
		return Context{}, fmt.Errorf("dimension id %q does not match canonical pattern DIMnn", dimensionID)
	}
	if !policyRe.MatchString(policyID) {
		return Context{}, fmt.Errorf("policy id %q does not match canonical pattern PAnn", policyID)
	}
	if unitQuality < 0.0 || unitQuality > 1.0 {
		return Context{}, fmt.Errorf("unit quality %v out of range [0,1]", unitQuality)
	}
	return Context{
		QuestionID:  questionID,
		DimensionID: dimensionID,
		PolicyID:    policyID,
		UnitQuality: unitQuality,
	}, nil
}
