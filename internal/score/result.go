package score

import (
	"fmt"
	"math"
)

// reconcileTolerance bounds the numerical drift allowed between the summed
// contributions and the stated final score.
const reconcileTolerance = 1e-6

// CalibrationSubject identifies one method instance being calibrated in
// one context.
type CalibrationSubject struct {
	MethodID        string  `json:"method_id"`
	MethodVersion   string  `json:"method_version"`
	GraphConfigHash string  `json:"graph_config_hash"`
	SubgraphID      string  `json:"subgraph_id"`
	Context         Context `json:"context"`
	Role            Role    `json:"role"`
}

// CalibrationResult is the fused output for one subject. Build it with
// NewCalibrationResult; a result whose contributions do not reconcile with
// the final score fails construction.
type CalibrationResult struct {
	Subject                 CalibrationSubject     `json:"subject"`
	LayerScores             map[LayerID]LayerScore `json:"layer_scores"`
	LinearContribution      float64                `json:"linear_contribution"`
	InteractionContribution float64                `json:"interaction_contribution"`
	FinalScore              float64                `json:"final_score"`
	Metadata                map[string]any         `json:"metadata,omitempty"`
}

// NewCalibrationResult validates reconciliation and bounds and builds the
// result.
func NewCalibrationResult(subject CalibrationSubject, layerScores map[LayerID]LayerScore, linear, interaction, final float64, metadata map[string]any) (CalibrationResult, error) {
	if final < 0.0 || final > 1.0 {
		return CalibrationResult{}, fmt.Errorf("final score %v out of range [0,1]", final)
	}
	if diff := math.Abs(linear + interaction - final); diff >= reconcileTolerance {
		return CalibrationResult{}, fmt.Errorf(
			"final score %v does not reconcile: linear %v + interaction %v (diff %v)",
			final, linear, interaction, diff)
	}
	for layer, ls := range layerScores {
		if ls.Score < 0.0 || ls.Score > 1.0 {
			return CalibrationResult{}, fmt.Errorf("layer %s score %v out of range [0,1]", layer, ls.Score)
		}
	}
	return CalibrationResult{
		Subject:                 subject,
		LayerScores:             layerScores,
		LinearContribution:      linear,
		InteractionContribution: interaction,
		FinalScore:              final,
		Metadata:                metadata,
	}, nil
}

// LowestLayer returns the lowest-scoring layer, used for failure analysis.
// ok is false when the result carries no layer scores.
func (r CalibrationResult) LowestLayer() (LayerScore, bool) {
	var lowest LayerScore
	found := false
	for _, l := range SortedLayers(r.LayerScores) {
		ls := r.LayerScores[l]
		if !found || ls.Score < lowest.Score {
			lowest = ls
			found = true
		}
	}
	return lowest, found
}
