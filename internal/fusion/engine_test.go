package fusion

import (
	"math"
	"testing"

	"calibra/internal/config"
	"calibra/internal/score"
)

func analyzerSpec() config.FusionSpec {
	return config.FusionSpec{
		Roles: map[string]config.RoleWeights{
			"analyzer": {
				Linear: map[string]float64{
					"base": 0.2, "unit": 0.2, "question": 0.1, "dimension": 0.1,
					"policy": 0.1, "congruence": 0.1, "chain": 0.1, "meta": 0.05,
				},
				Interactions: []config.InteractionWeight{
					{Layers: []string{"base", "unit"}, Weight: 0.05},
				},
			},
			"utility": {
				Linear: map[string]float64{"base": 0.4, "chain": 0.4, "meta": 0.2},
			},
		},
	}
}

func mustLayerScore(t *testing.T, layer score.LayerID, v float64) score.LayerScore {
	t.Helper()
	ls, err := score.NewLayerScore(layer, v, nil, "", nil)
	if err != nil {
		t.Fatalf("NewLayerScore(%s, %v): %v", layer, v, err)
	}
	return ls
}

func TestNewEngine_RejectsBadWeightSum(t *testing.T) {
	spec := config.FusionSpec{
		Roles: map[string]config.RoleWeights{
			"analyzer": {
				Linear: map[string]float64{"base": 0.6, "unit": 0.6},
			},
		},
	}
	if _, err := NewEngine(spec); err == nil {
		t.Fatal("expected error for weights summing to 1.2")
	}
}

func TestNewEngine_Rejections(t *testing.T) {
	cases := []struct {
		name string
		spec config.FusionSpec
	}{
		{"empty", config.FusionSpec{}},
		{"unknown role", config.FusionSpec{Roles: map[string]config.RoleWeights{
			"wizard": {Linear: map[string]float64{"base": 1.0}},
		}}},
		{"unknown layer", config.FusionSpec{Roles: map[string]config.RoleWeights{
			"utility": {Linear: map[string]float64{"aura": 1.0}},
		}}},
		{"negative weight", config.FusionSpec{Roles: map[string]config.RoleWeights{
			"utility": {Linear: map[string]float64{"base": 1.2, "chain": -0.2}},
		}}},
		{"interaction with one layer", config.FusionSpec{Roles: map[string]config.RoleWeights{
			"utility": {
				Linear:       map[string]float64{"base": 0.9},
				Interactions: []config.InteractionWeight{{Layers: []string{"base"}, Weight: 0.1}},
			},
		}}},
		{"interaction with duplicate layer", config.FusionSpec{Roles: map[string]config.RoleWeights{
			"utility": {
				Linear:       map[string]float64{"base": 0.9},
				Interactions: []config.InteractionWeight{{Layers: []string{"base", "base"}, Weight: 0.1}},
			},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewEngine(tc.spec); err == nil {
				t.Error("expected construction error")
			}
		})
	}
}

func TestFuse_Reconciles(t *testing.T) {
	e, err := NewEngine(analyzerSpec())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	scores := map[score.LayerID]score.LayerScore{}
	for _, l := range score.AllLayers() {
		scores[l] = mustLayerScore(t, l, 0.8)
	}

	linear, interaction, final, err := e.Fuse(score.RoleAnalyzer, scores)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if math.Abs(linear+interaction-final) > 1e-12 {
		t.Errorf("contributions do not reconcile: %v + %v != %v", linear, interaction, final)
	}
	// All layers at 0.8 with weights summing to 1.0 fuse to 0.8.
	if math.Abs(final-0.8) > 1e-9 {
		t.Errorf("final: got %v, want 0.8", final)
	}
	// min(base, unit) = 0.8, term weight 0.05.
	if math.Abs(interaction-0.04) > 1e-9 {
		t.Errorf("interaction: got %v, want 0.04", interaction)
	}
}

func TestFuse_OnlyPresentLayersContribute(t *testing.T) {
	e, err := NewEngine(analyzerSpec())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	scores := map[score.LayerID]score.LayerScore{
		score.LayerBase:  mustLayerScore(t, score.LayerBase, 1.0),
		score.LayerChain: mustLayerScore(t, score.LayerChain, 1.0),
		score.LayerMeta:  mustLayerScore(t, score.LayerMeta, 1.0),
	}
	linear, interaction, final, err := e.Fuse(score.RoleUtility, scores)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if math.Abs(final-1.0) > 1e-9 {
		t.Errorf("final: got %v, want 1.0", final)
	}
	if interaction != 0.0 {
		t.Errorf("interaction: got %v, want 0", interaction)
	}
	if math.Abs(linear-1.0) > 1e-9 {
		t.Errorf("linear: got %v, want 1.0", linear)
	}
}

func TestFuse_InteractionTreatsMissingLayerAsZero(t *testing.T) {
	e, err := NewEngine(analyzerSpec())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	// Base present, unit absent: the interaction term contributes 0 but the
	// linear base term still counts.
	scores := map[score.LayerID]score.LayerScore{
		score.LayerBase: mustLayerScore(t, score.LayerBase, 1.0),
	}
	linear, interaction, _, err := e.Fuse(score.RoleAnalyzer, scores)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if math.Abs(linear-0.2) > 1e-9 {
		t.Errorf("linear: got %v, want 0.2", linear)
	}
	if interaction != 0.0 {
		t.Errorf("interaction: got %v, want 0", interaction)
	}
}

func TestFuse_UnknownRole(t *testing.T) {
	e, err := NewEngine(analyzerSpec())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, _, _, err := e.Fuse(score.RoleCore, nil); err == nil {
		t.Error("expected error for role without declared weights")
	}
}

func TestRoles_CanonicalOrder(t *testing.T) {
	e, err := NewEngine(analyzerSpec())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	got := e.Roles()
	want := []score.Role{score.RoleAnalyzer, score.RoleUtility}
	if len(got) != len(want) {
		t.Fatalf("roles: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("roles[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}
