package layers

import (
	"fmt"

	"calibra/internal/config"
	"calibra/internal/score"
)

// ChainEvaluator validates presence of a method's declared inputs in the
// data-flow graph. Scoring is discrete with a strict precedence: any
// missing required input is a hard mismatch, then critical optionals, then
// the optional coverage ratio.
type ChainEvaluator struct {
	methods map[string]config.MethodSpec
}

// NewChainEvaluator indexes the catalog chain signatures.
func NewChainEvaluator(docs *config.Documents) *ChainEvaluator {
	methods := make(map[string]config.MethodSpec, len(docs.Catalog.Methods))
	for _, m := range docs.Catalog.Methods {
		methods[m.Canonical] = m
	}
	return &ChainEvaluator{methods: methods}
}

// Layer implements Evaluator.
func (e *ChainEvaluator) Layer() score.LayerID { return score.LayerChain }

// Evaluate implements Evaluator.
func (e *ChainEvaluator) Evaluate(req Request) (score.LayerScore, error) {
	return e.ScoreMethod(req.Subject.MethodID, req.Inputs)
}

// ScoreMethod scores one method against the inputs actually provided.
// Methods without a catalog signature trivially satisfy the chain.
func (e *ChainEvaluator) ScoreMethod(methodID string, provided []string) (score.LayerScore, error) {
	spec, ok := e.methods[methodID]
	if !ok {
		return score.NewLayerScore(score.LayerChain, 1.0, nil,
			fmt.Sprintf("method %s declares no chain signature", methodID),
			map[string]any{"declared": false})
	}

	have := make(map[string]bool, len(provided))
	for _, in := range provided {
		have[in] = true
	}

	missingRequired := missingFrom(spec.RequiredInputs, have)
	if len(missingRequired) > 0 {
		return score.NewLayerScore(score.LayerChain, 0.0, nil,
			fmt.Sprintf("method %s is missing required inputs %v", methodID, missingRequired),
			map[string]any{"missing_required": missingRequired})
	}

	missingCritical := missingFrom(spec.CriticalOptional, have)
	if len(missingCritical) > 0 {
		return score.NewLayerScore(score.LayerChain, 0.3, nil,
			fmt.Sprintf("method %s is missing critical optional inputs %v", methodID, missingCritical),
			map[string]any{"missing_critical": missingCritical})
	}

	// Plain optionals are the declared optionals that are not critical.
	critical := make(map[string]bool, len(spec.CriticalOptional))
	for _, in := range spec.CriticalOptional {
		critical[in] = true
	}
	plain := make([]string, 0, len(spec.OptionalInputs))
	for _, in := range spec.OptionalInputs {
		if !critical[in] {
			plain = append(plain, in)
		}
	}
	missingOptional := missingFrom(plain, have)
	switch {
	case len(missingOptional) == 0:
		return score.NewLayerScore(score.LayerChain, 1.0, nil,
			fmt.Sprintf("method %s has all declared inputs", methodID), nil)
	case float64(len(missingOptional)) > float64(len(plain))/2:
		return score.NewLayerScore(score.LayerChain, 0.6, nil,
			fmt.Sprintf("method %s is missing most optional inputs %v", methodID, missingOptional),
			map[string]any{"missing_optional": missingOptional})
	default:
		return score.NewLayerScore(score.LayerChain, 0.8, nil,
			fmt.Sprintf("method %s is missing some optional inputs %v", methodID, missingOptional),
			map[string]any{"missing_optional": missingOptional})
	}
}

// ScoreSequence validates an ordered chain. Each method sees the initial
// inputs plus a synthetic "<method>_output" for every method before it;
// the chain's quality is the minimum per-method score.
func (e *ChainEvaluator) ScoreSequence(methodIDs []string, initial []string) (score.LayerScore, []score.LayerScore, error) {
	if len(methodIDs) == 0 {
		ls, err := score.NewLayerScore(score.LayerChain, 0.0, nil, "empty sequence", nil)
		return ls, nil, err
	}
	available := append([]string(nil), initial...)
	perMethod := make([]score.LayerScore, 0, len(methodIDs))
	lowest := 1.0
	weakest := methodIDs[0]
	for _, id := range methodIDs {
		ls, err := e.ScoreMethod(id, available)
		if err != nil {
			return score.LayerScore{}, nil, err
		}
		perMethod = append(perMethod, ls)
		if ls.Score < lowest {
			lowest = ls.Score
			weakest = id
		}
		available = append(available, id+"_output")
	}
	overall, err := score.NewLayerScore(score.LayerChain, lowest, nil,
		fmt.Sprintf("sequence of %d methods, weakest link %s at %.2f", len(methodIDs), weakest, lowest),
		map[string]any{"weakest": weakest})
	if err != nil {
		return score.LayerScore{}, nil, err
	}
	return overall, perMethod, nil
}

func missingFrom(wanted []string, have map[string]bool) []string {
	var missing []string
	for _, in := range wanted {
		if !have[in] {
			missing = append(missing, in)
		}
	}
	return missing
}
