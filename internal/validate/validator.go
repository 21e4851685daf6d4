// Package validate turns calibration scores into PASS/FAIL decisions. It
// owns threshold resolution, failure-reason analysis, the batch roll-up,
// and the calibration gate the orchestrator calls before running a unit.
package validate

import (
	"fmt"
	"log/slog"

	"calibra/internal/config"
	"calibra/internal/fusion"
	"calibra/internal/layers"
	"calibra/internal/logging"
	"calibra/internal/roles"
	"calibra/internal/score"
)

// Validator runs the layer-evaluation and fusion pipeline for one method
// and renders a decision. Safe for concurrent use after construction.
type Validator struct {
	docs       *config.Documents
	resolver   *roles.Resolver
	engine     *fusion.Engine
	evaluators map[score.LayerID]layers.Evaluator
	log        *slog.Logger
}

// New builds a Validator from the store, loading configuration on first
// use. Fusion weights are re-validated at engine construction so a
// misconfigured role fails here, not at first evaluation.
func New(store *config.Store) (*Validator, error) {
	docs, err := store.Documents()
	if err != nil {
		return nil, err
	}
	resolver, err := roles.NewResolver(docs)
	if err != nil {
		return nil, err
	}
	engine, err := fusion.NewEngine(docs.Fusion)
	if err != nil {
		return nil, err
	}

	evaluators := make(map[score.LayerID]layers.Evaluator, 8)
	for _, ev := range []layers.Evaluator{
		layers.NewBaseEvaluator(docs),
		layers.NewUnitEvaluator(docs),
		layers.NewQuestionEvaluator(docs),
		layers.NewDimensionEvaluator(docs),
		layers.NewPolicyEvaluator(docs),
		layers.NewCongruenceEvaluator(docs),
		layers.NewChainEvaluator(docs),
		layers.NewMetaEvaluator(docs),
	} {
		evaluators[ev.Layer()] = ev
	}

	return &Validator{
		docs:       docs,
		resolver:   resolver,
		engine:     engine,
		evaluators: evaluators,
		log:        logging.New("validate"),
	}, nil
}

// Docs exposes the loaded configuration for report assembly.
func (v *Validator) Docs() *config.Documents { return v.docs }

// Resolver exposes the role resolver for inspection tooling.
func (v *Validator) Resolver() *roles.Resolver { return v.resolver }

// Validate renders the decision for one method. override, when non-nil,
// wins over every configured threshold. Runtime evaluation errors surface
// as a FAIL decision with reason unknown; they never propagate.
func (v *Validator) Validate(req layers.Request, override *float64) score.ValidationResult {
	methodID := req.Subject.MethodID

	if entry, ok := v.docs.Intrinsic.Methods[methodID]; ok && entry.Status == config.StatusExcluded {
		v.log.Debug("method excluded from calibration", "method", methodID)
		return score.ValidationResult{
			MethodID:  methodID,
			Decision:  score.DecisionSkipped,
			Score:     1.0,
			Threshold: 0.0,
		}
	}

	role := req.Subject.Role
	if role == "" {
		role = v.resolver.Resolve(methodID)
		req.Subject.Role = role
	}
	threshold := v.resolveThreshold(methodID, role, override)

	layerScores := make(map[score.LayerID]score.LayerScore)
	for _, layer := range v.resolver.RequiredLayers(methodID) {
		ls, err := v.evaluators[layer].Evaluate(req)
		if err != nil {
			return failUnknown(methodID, threshold, layerScores,
				fmt.Sprintf("layer %s: %v", layer, err))
		}
		layerScores[layer] = ls
	}

	linear, interaction, final, err := v.engine.Fuse(role, layerScores)
	if err != nil {
		return failUnknown(methodID, threshold, layerScores, err.Error())
	}
	result, err := score.NewCalibrationResult(req.Subject, layerScores, linear, interaction, final, nil)
	if err != nil {
		return failUnknown(methodID, threshold, layerScores, err.Error())
	}

	if result.FinalScore >= threshold {
		return score.ValidationResult{
			MethodID:    methodID,
			Decision:    score.DecisionPass,
			Score:       result.FinalScore,
			Threshold:   threshold,
			LayerScores: layerScores,
		}
	}

	reason, details := diagnose(result)
	return score.ValidationResult{
		MethodID:        methodID,
		Decision:        score.DecisionFail,
		Score:           result.FinalScore,
		Threshold:       threshold,
		FailureReason:   reason,
		FailureDetails:  details,
		LayerScores:     layerScores,
		Recommendations: Recommendations(reason),
	}
}

// resolveThreshold applies the precedence: explicit override, executor
// specific, role based, conservative default.
func (v *Validator) resolveThreshold(methodID string, role score.Role, override *float64) float64 {
	if override != nil {
		return *override
	}
	t := v.docs.Thresholds
	if v.resolver.IsExecutor(methodID) {
		if value, ok := t.Executors[methodID]; ok {
			return value
		}
		return t.ExecutorDefault
	}
	if value, ok := t.Roles[string(role)]; ok {
		return value
	}
	return t.DefaultThreshold
}

func failUnknown(methodID string, threshold float64, layerScores map[score.LayerID]score.LayerScore, details string) score.ValidationResult {
	return score.ValidationResult{
		MethodID:        methodID,
		Decision:        score.DecisionFail,
		Score:           0.0,
		Threshold:       threshold,
		FailureReason:   score.ReasonUnknown,
		FailureDetails:  details,
		LayerScores:     layerScores,
		Recommendations: Recommendations(score.ReasonUnknown),
	}
}

// diagnose maps the lowest-scoring layer to a failure reason.
func diagnose(result score.CalibrationResult) (score.FailureReason, string) {
	lowest, ok := result.LowestLayer()
	if !ok {
		return score.ReasonUnknown, "no layer scores computed"
	}
	details := fmt.Sprintf("lowest layer %s scored %.3f: %s", lowest.Layer, lowest.Score, lowest.Rationale)
	switch lowest.Layer {
	case score.LayerBase:
		return score.ReasonBaseQualityLow, details
	case score.LayerChain:
		return score.ReasonChainMissingInputs, details
	case score.LayerCongruence:
		return score.ReasonCongruenceInconsistent, details
	case score.LayerUnit:
		return score.ReasonUnitQualityLow, details
	case score.LayerQuestion, score.LayerDimension, score.LayerPolicy:
		return score.ReasonContextualIncompatible, details
	case score.LayerMeta:
		return score.ReasonGovernanceFail, details
	default:
		return score.ReasonUnknown, details
	}
}

// Recommendations returns the fixed remediation list for a failure reason.
func Recommendations(reason score.FailureReason) []string {
	switch reason {
	case score.ReasonBaseQualityLow:
		return []string{
			"Recompute the method's intrinsic calibration sub-scores",
			"Register the method in the intrinsic registry if it is missing",
		}
	case score.ReasonChainMissingInputs:
		return []string{
			"Verify upstream methods in the chain produced their outputs",
			"Review the method's declared required inputs against the graph wiring",
		}
	case score.ReasonCongruenceInconsistent:
		return []string{
			"Align the ensemble participants' declared output ranges",
			"Review the ensemble's fusion rule and semantic tags",
		}
	case score.ReasonUnitQualityLow:
		return []string{
			"Review the document's structural blocks and mandatory sections",
			"Complete the indicator and investment-plan matrices",
		}
	case score.ReasonContextualIncompatible:
		return []string{
			"Check the method's declared compatibility for this context",
			"Consider a method declared primary for this question or dimension",
		}
	case score.ReasonGovernanceFail:
		return []string{
			"Export the scoring formula and complete the execution trace",
			"Tag the method version and verify the configuration hash",
		}
	default:
		return []string{
			"Inspect failure details; the evaluation did not complete normally",
		}
	}
}
