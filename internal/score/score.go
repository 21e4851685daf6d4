// Package score defines the immutable value types shared by every
// calibration layer: layer identifiers, per-layer scores, execution
// contexts, compatibility mappings, and the fused calibration result.
//
// All value types are built through validating factories. A score outside
// [0,1] or a result whose contributions do not reconcile fails at
// construction and is never observable downstream.
package score

import (
	"fmt"
	"sort"
)

// LayerID identifies one of the eight calibration layers.
type LayerID string

const (
	LayerBase       LayerID = "base"       // intrinsic quality (@b)
	LayerUnit       LayerID = "unit"       // document/unit quality (@u)
	LayerQuestion   LayerID = "question"   // question compatibility (@q)
	LayerDimension  LayerID = "dimension"  // dimension compatibility (@d)
	LayerPolicy     LayerID = "policy"     // policy-area compatibility (@p)
	LayerCongruence LayerID = "congruence" // ensemble congruence (@C)
	LayerChain      LayerID = "chain"      // data-flow integrity (@chain)
	LayerMeta       LayerID = "meta"       // governance/meta (@m)
)

// AllLayers returns the eight layer IDs in canonical order.
func AllLayers() []LayerID {
	return []LayerID{
		LayerBase, LayerUnit, LayerQuestion, LayerDimension,
		LayerPolicy, LayerCongruence, LayerChain, LayerMeta,
	}
}

// ParseLayerID converts a string to a LayerID, rejecting unknown names.
func ParseLayerID(s string) (LayerID, error) {
	id := LayerID(s)
	for _, l := range AllLayers() {
		if id == l {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown layer %q", s)
}

// LayerScore is the result of evaluating one layer for one subject.
// Build it with NewLayerScore; a score outside [0,1] fails construction.
type LayerScore struct {
	Layer      LayerID            `json:"layer"`
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components,omitempty"`
	Rationale  string             `json:"rationale,omitempty"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
}

// NewLayerScore validates and builds a LayerScore. The score must already
// be in [0,1]; this factory never clamps.
func NewLayerScore(layer LayerID, value float64, components map[string]float64, rationale string, metadata map[string]any) (LayerScore, error) {
	if value < 0.0 || value > 1.0 {
		return LayerScore{}, fmt.Errorf("layer %s score %v out of range [0,1]", layer, value)
	}
	return LayerScore{
		Layer:      layer,
		Score:      value,
		Components: components,
		Rationale:  rationale,
		Metadata:   metadata,
	}, nil
}

// InteractionTerm is a pairwise synergy between two layers used by the
// fusion operator: weight * min(score1, score2). A missing layer counts as
// 0.0 (weakest link), never as an error.
type InteractionTerm struct {
	Layer1    LayerID `json:"layer_1" yaml:"layer_1"`
	Layer2    LayerID `json:"layer_2" yaml:"layer_2"`
	Weight    float64 `json:"weight" yaml:"weight"`
	Rationale string  `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// Compute returns the interaction contribution for the given layer scores.
func (t InteractionTerm) Compute(scores map[LayerID]float64) float64 {
	s1 := scores[t.Layer1]
	s2 := scores[t.Layer2]
	return t.Weight * min(s1, s2)
}

// SortedLayers returns the keys of a layer-score map in canonical order,
// so rationales and exports are deterministic.
func SortedLayers(scores map[LayerID]LayerScore) []LayerID {
	order := make(map[LayerID]int, 8)
	for i, l := range AllLayers() {
		order[l] = i
	}
	keys := make([]LayerID, 0, len(scores))
	for l := range scores {
		keys = append(keys, l)
	}
	sort.Slice(keys, func(i, j int) bool { return order[keys[i]] < order[keys[j]] })
	return keys
}
