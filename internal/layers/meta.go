package layers

import (
	"fmt"

	"calibra/internal/config"
	"calibra/internal/score"
)

// MetaEvaluator scores governance, transparency, and execution cost from
// execution evidence. Both the transparency and governance components are
// discrete 4-level lookups keyed by how many of their three booleans hold.
type MetaEvaluator struct {
	cfg config.MetaConfig
}

// NewMetaEvaluator wires the evaluator to the loaded configuration.
func NewMetaEvaluator(docs *config.Documents) *MetaEvaluator {
	return &MetaEvaluator{cfg: docs.Thresholds.Meta}
}

// Layer implements Evaluator.
func (e *MetaEvaluator) Layer() score.LayerID { return score.LayerMeta }

// Evaluate implements Evaluator.
func (e *MetaEvaluator) Evaluate(req Request) (score.LayerScore, error) {
	ev := req.Evidence

	transpCount := countTrue(ev.FormulaExported, ev.TraceComplete, ev.LogsConformant)
	govCount := countTrue(ev.VersionTagged, ev.ConfigHashMatch, ev.SignatureValid)
	mTransp := e.cfg.TransparencyLevels[transpCount]
	mGov := e.cfg.GovernanceLevels[govCount]

	runtimeMillis := ev.RuntimeMillis
	var mCost float64
	var tier string
	switch {
	case runtimeMillis <= e.cfg.Cost.FastMillis:
		mCost, tier = e.cfg.Cost.Fast, "fast"
	case runtimeMillis <= e.cfg.Cost.AcceptableMillis:
		mCost, tier = e.cfg.Cost.Acceptable, "acceptable"
	default:
		mCost, tier = e.cfg.Cost.Slow, "slow"
	}

	w := e.cfg.Weights
	value := w.Transparency*mTransp + w.Governance*mGov + w.Cost*mCost
	components := map[string]float64{
		"transparency": mTransp,
		"governance":   mGov,
		"cost":         mCost,
	}
	rationale := fmt.Sprintf(
		"transparency %d/3, governance %d/3, runtime %dms (%s): meta %.3f",
		transpCount, govCount, runtimeMillis, tier, value)
	return score.NewLayerScore(score.LayerMeta, value, components, rationale, map[string]any{
		"transparency_checks": transpCount,
		"governance_checks":   govCount,
		"cost_tier":           tier,
	})
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
