package layers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"calibra/internal/config"
	"calibra/internal/ingest"
	"calibra/internal/score"
)

// UnitEvaluator derives structural and content quality from a parsed plan
// document summary. It owns the hard gates (structural compliance minimum,
// indicator structure minimum, required matrices) and the capped
// anti-gaming penalty.
type UnitEvaluator struct {
	cfg config.UnitConfig
}

// NewUnitEvaluator wires the evaluator to the loaded configuration.
func NewUnitEvaluator(docs *config.Documents) *UnitEvaluator {
	return &UnitEvaluator{cfg: docs.Thresholds.Unit}
}

// Layer implements Evaluator.
func (e *UnitEvaluator) Layer() score.LayerID { return score.LayerUnit }

// Evaluate implements Evaluator. Without a document summary the context's
// pre-supplied unit quality is passed through unchanged.
func (e *UnitEvaluator) Evaluate(req Request) (score.LayerScore, error) {
	if req.Summary == nil {
		return score.NewLayerScore(score.LayerUnit, req.Subject.Context.UnitQuality, nil,
			"no document summary, using pre-supplied unit quality",
			map[string]any{"from_summary": false})
	}
	return e.Score(req.Summary)
}

// Score computes the unit quality for one document summary.
func (e *UnitEvaluator) Score(sum *ingest.Summary) (score.LayerScore, error) {
	if e.cfg.RequireIndicatorMatrix && !sum.HasIndicatorMatrix {
		return hardGate("document lacks the required indicator matrix", "indicator_matrix")
	}
	if e.cfg.RequireInvestmentMatrix && !sum.HasInvestmentMatrix {
		return hardGate("document lacks the required investment-plan matrix", "investment_matrix")
	}

	s := e.structuralScore(sum)
	if s < e.cfg.Structure.MinCompliance {
		return hardGate(
			fmt.Sprintf("structural compliance %.2f below minimum %.2f", s, e.cfg.Structure.MinCompliance),
			"structural_compliance")
	}

	m := e.sectionScore(sum)
	iStruct := e.indicatorStructure(sum.IndicatorRows)
	if iStruct < e.cfg.Indicators.StructHardGate {
		return hardGate(
			fmt.Sprintf("indicator structure %.2f below minimum %.2f", iStruct, e.cfg.Indicators.StructHardGate),
			"indicator_structure")
	}
	iw := e.cfg.Indicators.Weights
	i := iw.Structure*iStruct + iw.Linkage*e.indicatorLinkage(sum.IndicatorRows) + iw.Logic*e.indicatorLogic(sum.IndicatorRows)
	p := e.investmentScore(sum)

	agg, err := e.aggregate(s, m, i, p)
	if err != nil {
		return score.LayerScore{}, err
	}
	penalty, penaltyParts := e.gamingPenalty(sum)
	value := math.Max(0.0, agg-penalty)

	components := map[string]float64{
		"structure":  s,
		"sections":   m,
		"indicators": i,
		"investment": p,
		"penalty":    penalty,
	}
	rationale := fmt.Sprintf(
		"S=%.2f M=%.2f I=%.2f P=%.2f, %s aggregation %.3f, gaming penalty %.3f",
		s, m, i, p, e.cfg.Aggregation, agg, penalty)
	return score.NewLayerScore(score.LayerUnit, value, components, rationale, map[string]any{
		"from_summary":  true,
		"penalty_parts": penaltyParts,
	})
}

func hardGate(reason, gate string) (score.LayerScore, error) {
	return score.NewLayerScore(score.LayerUnit, 0.0, nil, reason, map[string]any{
		"hard_gate": gate,
	})
}

// structuralScore is the S component: block coverage, hierarchy numbering
// quality, and block ordering against the expected sequence.
func (e *UnitEvaluator) structuralScore(sum *ingest.Summary) float64 {
	cfg := e.cfg.Structure

	found := 0
	for _, name := range cfg.ExpectedBlocks {
		b, ok := sum.Blocks[name]
		if ok && b.Tokens >= cfg.MinBlockTokens && b.Numbers >= cfg.MinBlockNumbers {
			found++
		}
	}
	coverage := 0.0
	if len(cfg.ExpectedBlocks) > 0 {
		coverage = float64(found) / float64(len(cfg.ExpectedBlocks))
	}

	hierarchy := 0.0
	if len(sum.Headers) > 0 {
		valid := 0
		for _, h := range sum.Headers {
			if h.ValidNumbering {
				valid++
			}
		}
		ratio := float64(valid) / float64(len(sum.Headers))
		switch {
		case ratio >= cfg.HierarchyExcellent:
			hierarchy = 1.0
		case ratio >= cfg.HierarchyAcceptable:
			hierarchy = 0.5
		}
	}

	order := orderScore(sum.BlockSequence, cfg.ExpectedBlocks)

	w := cfg.Weights
	return w.Coverage*coverage + w.Hierarchy*hierarchy + w.Order*order
}

// orderScore counts inversions of the observed blocks against the expected
// sequence: none scores 1.0, exactly one 0.5, more 0.0.
func orderScore(observed, expected []string) float64 {
	rank := make(map[string]int, len(expected))
	for i, name := range expected {
		rank[name] = i
	}
	var ranks []int
	for _, name := range observed {
		if r, ok := rank[name]; ok {
			ranks = append(ranks, r)
		}
	}
	inversions := 0
	for i := 0; i < len(ranks); i++ {
		for j := i + 1; j < len(ranks); j++ {
			if ranks[i] > ranks[j] {
				inversions++
			}
		}
	}
	switch inversions {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0.0
	}
}

// sectionScore is the M component: weight-normalized average of per-section
// completeness. Absent sections score zero; only configured checks count.
func (e *UnitEvaluator) sectionScore(sum *ingest.Summary) float64 {
	var totalWeight, weighted float64
	for _, req := range e.cfg.Sections {
		totalWeight += req.Weight
		stats, ok := sum.Sections[req.Name]
		if !ok || !stats.Present {
			continue
		}
		checks, passed := 0, 0
		count := func(min *int, have int) {
			if min == nil {
				return
			}
			checks++
			if have >= *min {
				passed++
			}
		}
		count(req.MinTokens, stats.Tokens)
		count(req.MinKeywords, stats.Keywords)
		count(req.MinNumbers, stats.Numbers)
		count(req.MinSources, stats.Sources)
		completeness := 1.0
		if checks > 0 {
			completeness = float64(passed) / float64(checks)
		}
		weighted += req.Weight * completeness
	}
	if totalWeight == 0 {
		return 0.0
	}
	return weighted / totalWeight
}

// indicatorStructure averages per-row field completeness, weighting the
// critical fields above the optional ones. Placeholder values earn only the
// configured multiplier of full credit.
func (e *UnitEvaluator) indicatorStructure(rows []ingest.IndicatorRow) float64 {
	if len(rows) == 0 {
		return 0.0
	}
	cfg := e.cfg.Indicators
	var total float64
	for _, row := range rows {
		crit := e.fieldCompleteness(row, cfg.CriticalFields)
		opt := 1.0
		if len(cfg.OptionalFields) > 0 {
			opt = e.fieldCompleteness(row, cfg.OptionalFields)
		}
		total += cfg.CriticalFieldsWeight*crit + (1.0-cfg.CriticalFieldsWeight)*opt
	}
	return total / float64(len(rows))
}

func (e *UnitEvaluator) fieldCompleteness(row ingest.IndicatorRow, fields []string) float64 {
	if len(fields) == 0 {
		return 1.0
	}
	var sum float64
	for _, f := range fields {
		v := strings.TrimSpace(row[f])
		switch {
		case v == "":
		case e.isPlaceholder(v):
			sum += e.cfg.Indicators.PlaceholderPenaltyMultiplier
		default:
			sum += 1.0
		}
	}
	return sum / float64(len(fields))
}

func (e *UnitEvaluator) isPlaceholder(v string) bool {
	lower := strings.ToLower(v)
	for _, p := range e.cfg.Indicators.PlaceholderValues {
		if lower == p {
			return true
		}
	}
	return false
}

// indicatorLinkage is the fraction of rows whose two linkage fields share
// at least the configured number of words.
func (e *UnitEvaluator) indicatorLinkage(rows []ingest.IndicatorRow) float64 {
	if len(rows) == 0 {
		return 0.0
	}
	cfg := e.cfg.Indicators
	linked := 0
	for _, row := range rows {
		if sharedWords(row[cfg.LinkageField1], row[cfg.LinkageField2]) >= cfg.LinkageMinSharedWords {
			linked++
		}
	}
	return float64(linked) / float64(len(rows))
}

func sharedWords(a, b string) int {
	wordsA := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(a)) {
		wordsA[w] = true
	}
	shared := 0
	seen := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(b)) {
		if wordsA[w] && !seen[w] {
			seen[w] = true
			shared++
		}
	}
	return shared
}

// indicatorLogic is 1 minus the fraction of rows with a malformed or
// out-of-range baseline year.
func (e *UnitEvaluator) indicatorLogic(rows []ingest.IndicatorRow) float64 {
	if len(rows) == 0 {
		return 0.0
	}
	cfg := e.cfg.Indicators
	bad := 0
	for _, row := range rows {
		year, err := strconv.Atoi(strings.TrimSpace(row[cfg.BaselineYearField]))
		if err != nil || year < cfg.BaselineYearMin || year > cfg.BaselineYearMax {
			bad++
		}
	}
	return 1.0 - float64(bad)/float64(len(rows))
}

// investmentScore is the P component: matrix presence, per-row breakdown
// structure, and accounting consistency of both breakdowns against the
// stated total.
func (e *UnitEvaluator) investmentScore(sum *ingest.Summary) float64 {
	cfg := e.cfg.Investment
	rows := sum.InvestmentRows

	presence := 0.0
	if sum.HasInvestmentMatrix && len(rows) > 0 {
		presence = 1.0
	}

	structured := 0
	checks, consistent := 0, 0
	for _, row := range rows {
		if len(row.ByYear) > 0 && len(row.BySource) > 0 {
			structured++
		}
		if row.Total > 0 {
			checks += 2
			if reconciles(row.ByYear, row.Total, cfg.AccountingTolerance) {
				consistent++
			}
			if reconciles(row.BySource, row.Total, cfg.AccountingTolerance) {
				consistent++
			}
		}
	}
	structure, consistency := 0.0, 0.0
	if len(rows) > 0 {
		structure = float64(structured) / float64(len(rows))
	}
	if checks > 0 {
		consistency = float64(consistent) / float64(checks)
	}

	w := cfg.Weights
	return w.Presence*presence + w.Structure*structure + w.Consistency*consistency
}

func reconciles(breakdown map[string]float64, total, tolerance float64) bool {
	if len(breakdown) == 0 {
		return false
	}
	var sum float64
	for _, v := range breakdown {
		sum += v
	}
	return math.Abs(sum-total) <= tolerance*total
}

func (e *UnitEvaluator) aggregate(s, m, i, p float64) (float64, error) {
	switch e.cfg.Aggregation {
	case config.AggWeightedAverage:
		w := e.cfg.Weights
		return w.Structure*s + w.Sections*m + w.Indicators*i + w.Investment*p, nil
	case config.AggGeometricMean:
		return math.Pow(s*m*i*p, 0.25), nil
	case config.AggHarmonicMean:
		if s == 0 || m == 0 || i == 0 || p == 0 {
			return 0.0, nil
		}
		return 4.0 / (1.0/s + 1.0/m + 1.0/i + 1.0/p), nil
	default:
		return 0, fmt.Errorf("unknown aggregation %q", e.cfg.Aggregation)
	}
}

// gamingPenalty sums the capped anti-gaming contributions: placeholder
// saturation, repeated cost values, and thin numeric density in critical
// sections.
func (e *UnitEvaluator) gamingPenalty(sum *ingest.Summary) (float64, map[string]float64) {
	cfg := e.cfg.Gaming
	parts := make(map[string]float64)

	fields, placeholders := 0, 0
	for _, row := range sum.IndicatorRows {
		for _, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			fields++
			if e.isPlaceholder(v) {
				placeholders++
			}
		}
	}
	if fields > 0 {
		ratio := float64(placeholders) / float64(fields)
		if ratio > cfg.MaxPlaceholderRatio {
			parts["placeholder"] = (ratio - cfg.MaxPlaceholderRatio) * cfg.PlaceholderPenaltyScale
		}
	}

	var costs []float64
	for _, row := range sum.InvestmentRows {
		costs = append(costs, row.Total)
		for _, v := range row.ByYear {
			costs = append(costs, v)
		}
		for _, v := range row.BySource {
			costs = append(costs, v)
		}
	}
	if len(costs) > 0 {
		unique := make(map[float64]bool, len(costs))
		for _, c := range costs {
			unique[c] = true
		}
		ratio := float64(len(unique)) / float64(len(costs))
		if ratio < cfg.MinUniqueCostRatio {
			parts["uniqueness"] = (cfg.MinUniqueCostRatio - ratio) * cfg.UniquenessPenaltyScale
		}
	}

	var thin float64
	for _, name := range cfg.CriticalSections {
		stats, ok := sum.Sections[name]
		if !ok || stats.Tokens == 0 {
			continue
		}
		density := float64(stats.Numbers) / float64(stats.Tokens)
		if density < cfg.MinNumberDensity {
			thin += (cfg.MinNumberDensity - density) * cfg.DensityPenaltyScale
		}
	}
	if thin > 0 {
		parts["density"] = thin
	}

	var total float64
	for _, v := range parts {
		total += v
	}
	return math.Min(total, cfg.Cap), parts
}
