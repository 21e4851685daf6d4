package config

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"calibra/internal/score"
)

// Weight-sum tolerances. Fusion weights carry the tighter contract.
const (
	weightSumTolerance = 1e-6
	fusionSumTolerance = 1e-9
)

func validateIntrinsic(reg *IntrinsicRegistry) error {
	w := reg.BaseWeights
	for name, v := range map[string]float64{"theory": w.Theory, "impl": w.Impl, "deploy": w.Deploy} {
		if v < 0 {
			return fmt.Errorf("base weight %s is negative: %v", name, v)
		}
	}
	if sum := w.Theory + w.Impl + w.Deploy; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("base weights must sum to 1.0, got %v", sum)
	}
	for id, entry := range reg.Methods {
		switch entry.Status {
		case StatusComputed:
			for name, v := range map[string]float64{"theory": entry.Theory, "impl": entry.Impl, "deploy": entry.Deploy} {
				if v < 0.0 || v > 1.0 {
					return fmt.Errorf("method %s: %s score %v out of range [0,1]", id, name, v)
				}
			}
		case StatusExcluded:
			// Excluded methods carry no usable scores.
		default:
			return fmt.Errorf("method %s: unknown calibration status %q", id, entry.Status)
		}
	}
	return nil
}

func validateFusion(spec *FusionSpec) error {
	if len(spec.Roles) == 0 {
		return fmt.Errorf("no role fusion parameters declared")
	}
	roles := make([]string, 0, len(spec.Roles))
	for r := range spec.Roles {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	for _, roleName := range roles {
		if _, err := score.ParseRole(roleName); err != nil {
			return fmt.Errorf("fusion parameters: %w", err)
		}
		rw := spec.Roles[roleName]
		total := 0.0
		for layerName, w := range rw.Linear {
			if _, err := score.ParseLayerID(layerName); err != nil {
				return fmt.Errorf("role %s linear weights: %w", roleName, err)
			}
			if w < 0 {
				return fmt.Errorf("role %s: negative linear weight for layer %s: %v", roleName, layerName, w)
			}
			total += w
		}
		for i, iw := range rw.Interactions {
			if len(iw.Layers) != 2 {
				return fmt.Errorf("role %s interaction %d: exactly two layers required, got %d", roleName, i, len(iw.Layers))
			}
			if iw.Layers[0] == iw.Layers[1] {
				return fmt.Errorf("role %s interaction %d: layer pair must be distinct, got %q twice", roleName, i, iw.Layers[0])
			}
			for _, layerName := range iw.Layers {
				if _, err := score.ParseLayerID(layerName); err != nil {
					return fmt.Errorf("role %s interaction %d: %w", roleName, i, err)
				}
			}
			if iw.Weight < 0 {
				return fmt.Errorf("role %s interaction %d: negative weight %v", roleName, i, iw.Weight)
			}
			total += iw.Weight
		}
		if math.Abs(total-1.0) > fusionSumTolerance {
			return fmt.Errorf(
				"role %s: linear + interaction weights must sum to 1.0, got %.15f (deviation %.3g)",
				roleName, total, math.Abs(total-1.0))
		}
	}
	return nil
}

func validateCatalog(cat *Catalog) error {
	seen := make(map[string]bool, len(cat.Methods))
	for i, m := range cat.Methods {
		if m.Canonical == "" {
			return fmt.Errorf("method %d: canonical name is empty", i)
		}
		if seen[m.Canonical] {
			return fmt.Errorf("duplicate canonical name %q", m.Canonical)
		}
		seen[m.Canonical] = true
		// Unknown roles are tolerated here: the resolver degrades them to
		// the conservative all-layers requirement.
		if len(m.OutputRange) != 0 && len(m.OutputRange) != 2 {
			return fmt.Errorf("method %s: output_range must be [lo, hi], got %d values", m.Canonical, len(m.OutputRange))
		}
		if len(m.OutputRange) == 2 && m.OutputRange[0] > m.OutputRange[1] {
			return fmt.Errorf("method %s: output_range lo %v > hi %v", m.Canonical, m.OutputRange[0], m.OutputRange[1])
		}
	}
	ensembleSeen := make(map[string]bool, len(cat.Ensembles))
	for i, e := range cat.Ensembles {
		if e.ID == "" {
			return fmt.Errorf("ensemble %d: id is empty", i)
		}
		if ensembleSeen[e.ID] {
			return fmt.Errorf("duplicate ensemble id %q", e.ID)
		}
		ensembleSeen[e.ID] = true
		if len(e.Participants) == 0 {
			return fmt.Errorf("ensemble %s: no participants declared", e.ID)
		}
	}
	return nil
}

func validateThresholds(t *Thresholds) error {
	if err := inUnit("default_threshold", t.DefaultThreshold); err != nil {
		return err
	}
	if err := inUnit("conditional_pass_ratio", t.ConditionalRatio); err != nil {
		return err
	}
	if t.ExecutorPattern != "" {
		if _, err := regexp.Compile(t.ExecutorPattern); err != nil {
			return fmt.Errorf("executor_pattern: %w", err)
		}
	}
	if err := inUnit("executor_default_threshold", t.ExecutorDefault); err != nil {
		return err
	}
	for name, v := range t.Executors {
		if err := inUnit("executor_thresholds."+name, v); err != nil {
			return err
		}
	}
	for roleName, v := range t.Roles {
		if _, err := score.ParseRole(roleName); err != nil {
			return fmt.Errorf("role_thresholds: %w", err)
		}
		if err := inUnit("role_thresholds."+roleName, v); err != nil {
			return err
		}
	}
	for name, v := range map[string]float64{
		"base_quality.excellent":  t.BaseQuality.Excellent,
		"base_quality.good":       t.BaseQuality.Good,
		"base_quality.acceptable": t.BaseQuality.Acceptable,
	} {
		if err := inUnit(name, v); err != nil {
			return err
		}
	}
	if err := inUnit("penalties.uncalibrated_method", t.Penalties.UncalibratedMethod); err != nil {
		return err
	}
	if err := inUnit("penalties.undeclared_compatibility", t.Penalties.UndeclaredCompatibility); err != nil {
		return err
	}
	if err := validateUnit(&t.Unit); err != nil {
		return fmt.Errorf("unit: %w", err)
	}
	if err := validateMeta(&t.Meta); err != nil {
		return fmt.Errorf("meta: %w", err)
	}
	if len(t.Congruence.FusionRules) == 0 {
		return fmt.Errorf("congruence.fusion_rules is empty")
	}
	return nil
}

func validateUnit(u *UnitConfig) error {
	switch u.Aggregation {
	case AggWeightedAverage, AggGeometricMean, AggHarmonicMean:
	default:
		return fmt.Errorf("unknown aggregation %q", u.Aggregation)
	}
	if u.Aggregation == AggWeightedAverage {
		sum := u.Weights.Structure + u.Weights.Sections + u.Weights.Indicators + u.Weights.Investment
		if math.Abs(sum-1.0) > weightSumTolerance {
			return fmt.Errorf("component weights must sum to 1.0, got %v", sum)
		}
	}
	sw := u.Structure.Weights
	if sum := sw.Coverage + sw.Hierarchy + sw.Order; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("structure weights must sum to 1.0, got %v", sum)
	}
	if err := inUnit("structure.min_compliance", u.Structure.MinCompliance); err != nil {
		return err
	}
	if len(u.Structure.ExpectedBlocks) == 0 {
		return fmt.Errorf("structure.expected_blocks is empty")
	}
	if len(u.Sections) == 0 {
		return fmt.Errorf("no mandatory sections declared")
	}
	for _, s := range u.Sections {
		if s.Weight <= 0 {
			return fmt.Errorf("section %s: weight must be positive, got %v", s.Name, s.Weight)
		}
	}
	iw := u.Indicators.Weights
	if sum := iw.Structure + iw.Linkage + iw.Logic; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("indicator weights must sum to 1.0, got %v", sum)
	}
	if err := inUnit("indicators.struct_hard_gate", u.Indicators.StructHardGate); err != nil {
		return err
	}
	if len(u.Indicators.CriticalFields) == 0 {
		return fmt.Errorf("indicators.critical_fields is empty")
	}
	pw := u.Investment.Weights
	if sum := pw.Presence + pw.Structure + pw.Consistency; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("investment weights must sum to 1.0, got %v", sum)
	}
	if u.Investment.AccountingTolerance < 0 {
		return fmt.Errorf("investment.accounting_tolerance is negative: %v", u.Investment.AccountingTolerance)
	}
	if u.Gaming.Cap < 0 || u.Gaming.Cap > 1 {
		return fmt.Errorf("gaming.cap %v out of range [0,1]", u.Gaming.Cap)
	}
	return nil
}

func validateMeta(m *MetaConfig) error {
	w := m.Weights
	if sum := w.Transparency + w.Governance + w.Cost; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	for name, levels := range map[string][]float64{
		"transparency_levels": m.TransparencyLevels,
		"governance_levels":   m.GovernanceLevels,
	} {
		if len(levels) != 4 {
			return fmt.Errorf("%s must have exactly 4 values (0..3 of 3), got %d", name, len(levels))
		}
		for i, v := range levels {
			if err := inUnit(fmt.Sprintf("%s[%d]", name, i), v); err != nil {
				return err
			}
		}
	}
	for name, v := range map[string]float64{
		"cost.fast": m.Cost.Fast, "cost.acceptable": m.Cost.Acceptable, "cost.slow": m.Cost.Slow,
	} {
		if err := inUnit(name, v); err != nil {
			return err
		}
	}
	if m.Cost.FastMillis <= 0 || m.Cost.AcceptableMillis <= m.Cost.FastMillis {
		return fmt.Errorf("cost tiers must satisfy 0 < fast_millis < acceptable_millis, got %d and %d",
			m.Cost.FastMillis, m.Cost.AcceptableMillis)
	}
	return nil
}

func inUnit(name string, v float64) error {
	if v < 0.0 || v > 1.0 {
		return fmt.Errorf("%s %v out of range [0,1]", name, v)
	}
	return nil
}
