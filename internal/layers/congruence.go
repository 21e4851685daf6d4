package layers

import (
	"fmt"
	"strings"

	"calibra/internal/config"
	"calibra/internal/score"
)

// CongruenceEvaluator validates declared ensembles: sets of methods that
// jointly produce one fused output. C = c_scale * c_sem * c_fusion, all
// three components discrete. Ensembles are declared in the catalog and
// never inferred from structure.
type CongruenceEvaluator struct {
	docs    *config.Documents
	methods map[string]config.MethodSpec
	rules   map[string]bool
}

// NewCongruenceEvaluator indexes the catalog and the fusion-rule
// allow-list.
func NewCongruenceEvaluator(docs *config.Documents) *CongruenceEvaluator {
	methods := make(map[string]config.MethodSpec, len(docs.Catalog.Methods))
	for _, m := range docs.Catalog.Methods {
		methods[m.Canonical] = m
	}
	rules := make(map[string]bool, len(docs.Thresholds.Congruence.FusionRules))
	for _, r := range docs.Thresholds.Congruence.FusionRules {
		rules[r] = true
	}
	return &CongruenceEvaluator{docs: docs, methods: methods, rules: rules}
}

// Layer implements Evaluator.
func (e *CongruenceEvaluator) Layer() score.LayerID { return score.LayerCongruence }

// Evaluate implements Evaluator. The method's score is the weakest of the
// declared ensembles it participates in; a method in no ensemble scores as
// a singleton (1.0 if registered, else 0.0).
func (e *CongruenceEvaluator) Evaluate(req Request) (score.LayerScore, error) {
	methodID := req.Subject.MethodID

	var worst *score.LayerScore
	for _, ens := range e.docs.Catalog.Ensembles {
		if !contains(ens.Participants, methodID) {
			continue
		}
		ls, err := e.ScoreEnsemble(ens.Participants, ens.FusionRule, req.Inputs)
		if err != nil {
			return score.LayerScore{}, err
		}
		if worst == nil || ls.Score < worst.Score {
			ls.Metadata["ensemble"] = ens.ID
			worst = &ls
		}
	}
	if worst != nil {
		return *worst, nil
	}
	return e.ScoreEnsemble([]string{methodID}, "", req.Inputs)
}

// ScoreEnsemble scores one declared interplay directly.
func (e *CongruenceEvaluator) ScoreEnsemble(methodIDs []string, fusionRule string, available []string) (score.LayerScore, error) {
	if len(methodIDs) < 2 {
		if len(methodIDs) == 0 {
			return score.NewLayerScore(score.LayerCongruence, 0.0, nil,
				"empty ensemble", map[string]any{"methods": 0})
		}
		_, registered := e.methods[methodIDs[0]]
		value := 0.0
		rationale := fmt.Sprintf("single method %s is not registered", methodIDs[0])
		if registered {
			value = 1.0
			rationale = fmt.Sprintf("single registered method %s, congruence trivially holds", methodIDs[0])
		}
		return score.NewLayerScore(score.LayerCongruence, value, nil, rationale, map[string]any{
			"methods": 1, "registered": registered,
		})
	}

	cScale := e.scaleComponent(methodIDs)
	cSem := e.semanticComponent(methodIDs)
	cFusion := e.fusionComponent(methodIDs, fusionRule, available)
	value := cScale * cSem * cFusion

	components := map[string]float64{
		"scale":    cScale,
		"semantic": cSem,
		"fusion":   cFusion,
	}
	rationale := fmt.Sprintf("ensemble [%s]: C = %.2f(scale) * %.2f(sem) * %.2f(fusion) = %.3f",
		strings.Join(methodIDs, ", "), cScale, cSem, cFusion, value)
	return score.NewLayerScore(score.LayerCongruence, value, components, rationale, map[string]any{
		"methods":     len(methodIDs),
		"fusion_rule": fusionRule,
	})
}

// scaleComponent: 1.0 for identical declared output ranges, 0.8 when all
// ranges sit inside [0,1] without being identical, 0.0 otherwise.
func (e *CongruenceEvaluator) scaleComponent(methodIDs []string) float64 {
	ranges := make([][]float64, 0, len(methodIDs))
	for _, id := range methodIDs {
		spec, ok := e.methods[id]
		if !ok || len(spec.OutputRange) != 2 {
			return 0.0
		}
		ranges = append(ranges, spec.OutputRange)
	}
	identical := true
	unit := true
	first := ranges[0]
	for _, r := range ranges {
		if r[0] != first[0] || r[1] != first[1] {
			identical = false
		}
		if r[0] < 0.0 || r[1] > 1.0 {
			unit = false
		}
	}
	switch {
	case identical:
		return 1.0
	case unit:
		return 0.8
	default:
		return 0.0
	}
}

// semanticComponent is the Jaccard index over the methods' declared
// semantic tags. An empty union scores 0.0.
func (e *CongruenceEvaluator) semanticComponent(methodIDs []string) float64 {
	union := make(map[string]int)
	for _, id := range methodIDs {
		spec := e.methods[id]
		seen := make(map[string]bool, len(spec.SemanticTags))
		for _, tag := range spec.SemanticTags {
			if !seen[tag] {
				seen[tag] = true
				union[tag]++
			}
		}
	}
	if len(union) == 0 {
		return 0.0
	}
	intersection := 0
	for _, count := range union {
		if count == len(methodIDs) {
			intersection++
		}
	}
	return float64(intersection) / float64(len(union))
}

// fusionComponent: 0.0 when the rule is not allow-listed; 1.0 when every
// declared fusion-input requirement across the ensemble is available; 0.5
// when the rule is valid but inputs are missing.
func (e *CongruenceEvaluator) fusionComponent(methodIDs []string, rule string, available []string) float64 {
	if !e.rules[rule] {
		return 0.0
	}
	have := make(map[string]bool, len(available))
	for _, in := range available {
		have[in] = true
	}
	required := make(map[string]bool)
	for _, id := range methodIDs {
		for _, in := range e.methods[id].FusionRequirements {
			required[in] = true
		}
	}
	for in := range required {
		if !have[in] {
			return 0.5
		}
	}
	return 1.0
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
