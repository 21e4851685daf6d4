package layers

import (
	"fmt"

	"calibra/internal/config"
	"calibra/internal/score"
)

// BaseEvaluator combines the three pre-computed intrinsic sub-scores with
// the registry's weight triple. Methods absent from the registry score the
// configured uncalibrated penalty, never zero.
type BaseEvaluator struct {
	docs *config.Documents
}

// NewBaseEvaluator wires the evaluator to the loaded configuration.
func NewBaseEvaluator(docs *config.Documents) *BaseEvaluator {
	return &BaseEvaluator{docs: docs}
}

// Layer implements Evaluator.
func (e *BaseEvaluator) Layer() score.LayerID { return score.LayerBase }

// Evaluate implements Evaluator.
func (e *BaseEvaluator) Evaluate(req Request) (score.LayerScore, error) {
	methodID := req.Subject.MethodID
	entry, ok := e.docs.Intrinsic.Methods[methodID]
	if !ok || entry.Status != config.StatusComputed {
		penalty := e.docs.Thresholds.Penalties.UncalibratedMethod
		rationale := fmt.Sprintf("method %s has no computed intrinsic calibration, applying uncalibrated penalty %.2f", methodID, penalty)
		return score.NewLayerScore(score.LayerBase, penalty, nil, rationale, map[string]any{
			"calibrated": false,
			"quality":    e.docs.Thresholds.BaseQuality.Label(penalty),
		})
	}

	w := e.docs.Intrinsic.BaseWeights
	value := w.Theory*entry.Theory + w.Impl*entry.Impl + w.Deploy*entry.Deploy
	components := map[string]float64{
		"theory": entry.Theory,
		"impl":   entry.Impl,
		"deploy": entry.Deploy,
	}
	rationale := fmt.Sprintf("intrinsic quality %.3f = %.2f*theory + %.2f*impl + %.2f*deploy",
		value, w.Theory, w.Impl, w.Deploy)
	return score.NewLayerScore(score.LayerBase, value, components, rationale, map[string]any{
		"calibrated": true,
		"quality":    e.docs.Thresholds.BaseQuality.Label(value),
	})
}

// CoverageStats summarizes the intrinsic registry for audit reporting.
type CoverageStats struct {
	Total    int                `json:"total"`
	Computed int                `json:"computed"`
	Excluded int                `json:"excluded"`
	ByRole   map[string]int     `json:"by_role"`
	Averages map[string]float64 `json:"averages"`
}

// Coverage computes registry-wide counts and average sub-scores over the
// computed entries.
func (e *BaseEvaluator) Coverage() CoverageStats {
	stats := CoverageStats{
		ByRole:   make(map[string]int),
		Averages: make(map[string]float64),
	}
	var sumTheory, sumImpl, sumDeploy float64
	for _, entry := range e.docs.Intrinsic.Methods {
		stats.Total++
		if entry.Role != "" {
			stats.ByRole[entry.Role]++
		}
		switch entry.Status {
		case config.StatusComputed:
			stats.Computed++
			sumTheory += entry.Theory
			sumImpl += entry.Impl
			sumDeploy += entry.Deploy
		case config.StatusExcluded:
			stats.Excluded++
		}
	}
	if stats.Computed > 0 {
		n := float64(stats.Computed)
		stats.Averages["theory"] = sumTheory / n
		stats.Averages["impl"] = sumImpl / n
		stats.Averages["deploy"] = sumDeploy / n
	}
	return stats
}
