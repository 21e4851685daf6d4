// Package fusion combines selected layer scores into one bounded score via
// a per-role linear plus pairwise-interaction formula. Weights are
// validated at engine construction; an out-of-range fused score is a
// configuration error and is never clamped.
package fusion

import (
	"fmt"
	"math"

	"calibra/internal/config"
	"calibra/internal/score"
)

const sumTolerance = 1e-9

type roleWeights struct {
	linear       map[score.LayerID]float64
	interactions []score.InteractionTerm
}

// Engine holds validated per-role fusion parameters. Safe for concurrent
// use after construction.
type Engine struct {
	roles map[score.Role]roleWeights
}

// NewEngine validates every role's weights independently and builds the
// engine. Any negative weight, malformed pair, or off-tolerance sum fails
// construction; fusion misconfiguration must surface at startup, not at
// first use.
func NewEngine(spec config.FusionSpec) (*Engine, error) {
	if len(spec.Roles) == 0 {
		return nil, &config.ConfigError{Doc: "fusion", Err: fmt.Errorf("no roles declared")}
	}
	e := &Engine{roles: make(map[score.Role]roleWeights, len(spec.Roles))}
	for roleName, rw := range spec.Roles {
		role, err := score.ParseRole(roleName)
		if err != nil {
			return nil, &config.ConfigError{Doc: "fusion", Err: err}
		}
		weights := roleWeights{linear: make(map[score.LayerID]float64, len(rw.Linear))}
		total := 0.0
		for layerName, w := range rw.Linear {
			layer, err := score.ParseLayerID(layerName)
			if err != nil {
				return nil, &config.ConfigError{Doc: "fusion", Err: fmt.Errorf("role %s: %w", roleName, err)}
			}
			if w < 0 {
				return nil, &config.ConfigError{Doc: "fusion",
					Err: fmt.Errorf("role %s: negative weight %v for layer %s", roleName, w, layer)}
			}
			weights.linear[layer] = w
			total += w
		}
		for i, iw := range rw.Interactions {
			if len(iw.Layers) != 2 || iw.Layers[0] == iw.Layers[1] {
				return nil, &config.ConfigError{Doc: "fusion",
					Err: fmt.Errorf("role %s interaction %d: exactly two distinct layers required", roleName, i)}
			}
			l1, err := score.ParseLayerID(iw.Layers[0])
			if err != nil {
				return nil, &config.ConfigError{Doc: "fusion", Err: fmt.Errorf("role %s: %w", roleName, err)}
			}
			l2, err := score.ParseLayerID(iw.Layers[1])
			if err != nil {
				return nil, &config.ConfigError{Doc: "fusion", Err: fmt.Errorf("role %s: %w", roleName, err)}
			}
			if iw.Weight < 0 {
				return nil, &config.ConfigError{Doc: "fusion",
					Err: fmt.Errorf("role %s interaction %d: negative weight %v", roleName, i, iw.Weight)}
			}
			weights.interactions = append(weights.interactions, score.InteractionTerm{
				Layer1: l1, Layer2: l2, Weight: iw.Weight, Rationale: iw.Rationale,
			})
			total += iw.Weight
		}
		if math.Abs(total-1.0) > sumTolerance {
			return nil, &config.ConfigError{Doc: "fusion",
				Err: fmt.Errorf("role %s: weights sum to %.12f, want 1.0", roleName, total)}
		}
		e.roles[role] = weights
	}
	return e, nil
}

// Roles lists the roles the engine carries weights for.
func (e *Engine) Roles() []score.Role {
	out := make([]score.Role, 0, len(e.roles))
	for _, r := range score.AllRoles() {
		if _, ok := e.roles[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Fuse combines the layer scores computed for one subject under the given
// role's weights. Only layers present in the computed set contribute. The
// returned contributions always satisfy linear + interaction == final; a
// final score outside [0,1] is reported as a configuration error, never
// corrected.
func (e *Engine) Fuse(role score.Role, layerScores map[score.LayerID]score.LayerScore) (linear, interaction, final float64, err error) {
	weights, ok := e.roles[role]
	if !ok {
		return 0, 0, 0, &config.ConfigError{Doc: "fusion",
			Err: fmt.Errorf("no fusion weights declared for role %s", role)}
	}

	values := make(map[score.LayerID]float64, len(layerScores))
	for layer, ls := range layerScores {
		values[layer] = ls.Score
	}

	for layer, w := range weights.linear {
		if v, present := values[layer]; present {
			linear += w * v
		}
	}
	for _, term := range weights.interactions {
		_, ok1 := values[term.Layer1]
		_, ok2 := values[term.Layer2]
		if ok1 || ok2 {
			interaction += term.Compute(values)
		}
	}
	final = linear + interaction
	if final < 0.0 || final > 1.0 {
		return 0, 0, 0, &config.ConfigError{Doc: "fusion",
			Err: fmt.Errorf("fused score %v for role %s outside [0,1]: weights changed after validation", final, role)}
	}
	return linear, interaction, final, nil
}
