package layers

import (
	"fmt"

	"calibra/internal/config"
	"calibra/internal/score"
)

// ContextualEvaluator is one of the three structurally identical context
// lookups (question, dimension, policy area). Undeclared identifiers score
// the configured undeclared penalty with level "undeclared".
type ContextualEvaluator struct {
	docs  *config.Documents
	layer score.LayerID
}

// NewQuestionEvaluator scores question compatibility.
func NewQuestionEvaluator(docs *config.Documents) *ContextualEvaluator {
	return &ContextualEvaluator{docs: docs, layer: score.LayerQuestion}
}

// NewDimensionEvaluator scores dimension compatibility.
func NewDimensionEvaluator(docs *config.Documents) *ContextualEvaluator {
	return &ContextualEvaluator{docs: docs, layer: score.LayerDimension}
}

// NewPolicyEvaluator scores policy-area compatibility.
func NewPolicyEvaluator(docs *config.Documents) *ContextualEvaluator {
	return &ContextualEvaluator{docs: docs, layer: score.LayerPolicy}
}

// Layer implements Evaluator.
func (e *ContextualEvaluator) Layer() score.LayerID { return e.layer }

// Evaluate implements Evaluator.
func (e *ContextualEvaluator) Evaluate(req Request) (score.LayerScore, error) {
	methodID := req.Subject.MethodID
	ctx := req.Subject.Context

	mapping, registered := e.docs.Compatibility[methodID]
	var id string
	var value float64
	switch e.layer {
	case score.LayerQuestion:
		id = ctx.QuestionID
		value = mapping.QuestionScore(id)
	case score.LayerDimension:
		id = ctx.DimensionID
		value = mapping.DimensionScore(id)
	case score.LayerPolicy:
		id = ctx.PolicyID
		value = mapping.PolicyScore(id)
	default:
		return score.LayerScore{}, fmt.Errorf("contextual evaluator cannot score layer %s", e.layer)
	}
	if !registered {
		value = e.docs.Thresholds.Penalties.UndeclaredCompatibility
	}

	level := score.CompatLevel(value)
	rationale := fmt.Sprintf("method %s is %s for %s %q", methodID, level, e.layer, id)
	return score.NewLayerScore(e.layer, value, nil, rationale, map[string]any{
		"level":      level,
		"identifier": id,
		"registered": registered,
	})
}
