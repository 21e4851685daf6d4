// Package config loads and validates the five registry documents the
// calibration core consumes: the method catalog, the intrinsic-score
// registry, the compatibility registry, the fusion specification, and the
// threshold/penalty specification.
//
// Documents are YAML or JSON, loaded exactly once per Store (lazy, thread
// safe) and held read-only afterwards. Every numeric contract (weight sums,
// ranges, discrete levels, anti-universality) is checked at load time;
// violations surface as ConfigError and are never silently corrected.
package config

// Catalog describes every known method and the declared ensembles.
type Catalog struct {
	Version   int            `json:"version" yaml:"version"`
	Methods   []MethodSpec   `json:"methods" yaml:"methods"`
	Ensembles []EnsembleSpec `json:"ensembles" yaml:"ensembles"`
}

// MethodSpec is one catalog entry: identity, role, and the declared
// metadata the chain and congruence layers validate against.
type MethodSpec struct {
	Canonical string `json:"canonical" yaml:"canonical"`
	Class     string `json:"class" yaml:"class"`
	Method    string `json:"method" yaml:"method"`
	Role      string `json:"role" yaml:"role"`

	// Congruence metadata.
	OutputRange        []float64 `json:"output_range,omitempty" yaml:"output_range,omitempty"`
	SemanticTags       []string  `json:"semantic_tags,omitempty" yaml:"semantic_tags,omitempty"`
	FusionRequirements []string  `json:"fusion_requirements,omitempty" yaml:"fusion_requirements,omitempty"`

	// Chain signature.
	RequiredInputs   []string `json:"required_inputs,omitempty" yaml:"required_inputs,omitempty"`
	OptionalInputs   []string `json:"optional_inputs,omitempty" yaml:"optional_inputs,omitempty"`
	CriticalOptional []string `json:"critical_optional,omitempty" yaml:"critical_optional,omitempty"`
}

// EnsembleSpec is a declared interplay: an explicit participant list and a
// named fusion rule. Ensembles are never inferred from structure.
type EnsembleSpec struct {
	ID           string   `json:"id" yaml:"id"`
	Participants []string `json:"participants" yaml:"participants"`
	FusionRule   string   `json:"fusion_rule" yaml:"fusion_rule"`
	TargetOutput string   `json:"target_output,omitempty" yaml:"target_output,omitempty"`
}

// IntrinsicRegistry holds the pre-computed intrinsic sub-scores per method
// and the global weight triple used to combine them.
type IntrinsicRegistry struct {
	BaseWeights BaseWeights               `json:"base_weights" yaml:"base_weights"`
	Methods     map[string]IntrinsicEntry `json:"methods" yaml:"methods"`
}

// BaseWeights combines the three intrinsic sub-scores. Must sum to 1.0
// within 1e-6; there is no hardcoded default triple.
type BaseWeights struct {
	Theory float64 `json:"theory" yaml:"theory"`
	Impl   float64 `json:"impl" yaml:"impl"`
	Deploy float64 `json:"deploy" yaml:"deploy"`
}

// Intrinsic calibration statuses.
const (
	StatusComputed = "computed"
	StatusExcluded = "excluded"
)

// IntrinsicEntry is one method's pre-computed intrinsic calibration.
type IntrinsicEntry struct {
	Theory float64 `json:"theory" yaml:"theory"`
	Impl   float64 `json:"impl" yaml:"impl"`
	Deploy float64 `json:"deploy" yaml:"deploy"`
	Status string  `json:"status" yaml:"status"`
	Role   string  `json:"role,omitempty" yaml:"role,omitempty"`
}

// CompatibilityDoc is the on-disk shape of the compatibility registry.
type CompatibilityDoc struct {
	AntiUniversalityThreshold float64                `json:"anti_universality_threshold" yaml:"anti_universality_threshold"`
	Methods                   map[string]CompatEntry `json:"methods" yaml:"methods"`
}

// CompatEntry is one method's declared per-axis compatibility scores.
type CompatEntry struct {
	Questions  map[string]float64 `json:"questions" yaml:"questions"`
	Dimensions map[string]float64 `json:"dimensions" yaml:"dimensions"`
	Policies   map[string]float64 `json:"policies" yaml:"policies"`
}

// FusionSpec holds per-role linear and interaction weight maps.
type FusionSpec struct {
	Roles map[string]RoleWeights `json:"roles" yaml:"roles"`
}

// RoleWeights is one role's fusion parameters.
type RoleWeights struct {
	Linear       map[string]float64  `json:"linear" yaml:"linear"`
	Interactions []InteractionWeight `json:"interactions" yaml:"interactions"`
}

// InteractionWeight is one pairwise term: exactly two layer names and a
// non-negative weight.
type InteractionWeight struct {
	Layers    []string `json:"layers" yaml:"layers"`
	Weight    float64  `json:"weight" yaml:"weight"`
	Rationale string   `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// Thresholds is the threshold/penalty specification. The core contract is
// that no numeric threshold is hardcoded anywhere else: every knob the
// evaluators use is sourced from this document.
type Thresholds struct {
	DefaultThreshold float64            `json:"default_threshold" yaml:"default_threshold"`
	ConditionalRatio float64            `json:"conditional_pass_ratio" yaml:"conditional_pass_ratio"`
	ExecutorPattern  string             `json:"executor_pattern" yaml:"executor_pattern"`
	ExecutorDefault  float64            `json:"executor_default_threshold" yaml:"executor_default_threshold"`
	Executors        map[string]float64 `json:"executor_thresholds" yaml:"executor_thresholds"`
	Roles            map[string]float64 `json:"role_thresholds" yaml:"role_thresholds"`

	BaseQuality QualityBands `json:"base_quality" yaml:"base_quality"`
	Penalties   Penalties    `json:"penalties" yaml:"penalties"`

	Unit       UnitConfig       `json:"unit" yaml:"unit"`
	Meta       MetaConfig       `json:"meta" yaml:"meta"`
	Congruence CongruenceConfig `json:"congruence" yaml:"congruence"`
}

// QualityBands derives a qualitative label from a score. Labels are
// metadata only; they never affect the score.
type QualityBands struct {
	Excellent  float64 `json:"excellent" yaml:"excellent"`
	Good       float64 `json:"good" yaml:"good"`
	Acceptable float64 `json:"acceptable" yaml:"acceptable"`
}

// Label returns the band name for a score.
func (b QualityBands) Label(v float64) string {
	switch {
	case v >= b.Excellent:
		return "excellent"
	case v >= b.Good:
		return "good"
	case v >= b.Acceptable:
		return "acceptable"
	default:
		return "needs_improvement"
	}
}

// Penalties are the named degradation constants for lookup misses.
type Penalties struct {
	UncalibratedMethod      float64 `json:"uncalibrated_method" yaml:"uncalibrated_method"`
	UndeclaredCompatibility float64 `json:"undeclared_compatibility" yaml:"undeclared_compatibility"`
}

// UnitConfig drives the unit evaluator: component weights, hard gates,
// section requirements, and the anti-gaming penalty.
type UnitConfig struct {
	Aggregation string      `json:"aggregation" yaml:"aggregation"`
	Weights     SMIPWeights `json:"weights" yaml:"weights"`

	Structure  StructureConfig      `json:"structure" yaml:"structure"`
	Sections   []SectionRequirement `json:"sections" yaml:"sections"`
	Indicators IndicatorConfig      `json:"indicators" yaml:"indicators"`
	Investment InvestmentConfig     `json:"investment" yaml:"investment"`

	RequireIndicatorMatrix  bool `json:"require_indicator_matrix" yaml:"require_indicator_matrix"`
	RequireInvestmentMatrix bool `json:"require_investment_matrix" yaml:"require_investment_matrix"`

	Gaming GamingConfig `json:"gaming" yaml:"gaming"`
}

// Unit aggregation modes.
const (
	AggWeightedAverage = "weighted_average"
	AggGeometricMean   = "geometric_mean"
	AggHarmonicMean    = "harmonic_mean"
)

// SMIPWeights weights the four unit components under weighted_average
// aggregation.
type SMIPWeights struct {
	Structure  float64 `json:"structure" yaml:"structure"`
	Sections   float64 `json:"sections" yaml:"sections"`
	Indicators float64 `json:"indicators" yaml:"indicators"`
	Investment float64 `json:"investment" yaml:"investment"`
}

// StructureConfig drives the S component and its hard gate.
type StructureConfig struct {
	Weights struct {
		Coverage  float64 `json:"coverage" yaml:"coverage"`
		Hierarchy float64 `json:"hierarchy" yaml:"hierarchy"`
		Order     float64 `json:"order" yaml:"order"`
	} `json:"weights" yaml:"weights"`
	MinBlockTokens      int      `json:"min_block_tokens" yaml:"min_block_tokens"`
	MinBlockNumbers     int      `json:"min_block_numbers" yaml:"min_block_numbers"`
	HierarchyExcellent  float64  `json:"hierarchy_excellent" yaml:"hierarchy_excellent"`
	HierarchyAcceptable float64  `json:"hierarchy_acceptable" yaml:"hierarchy_acceptable"`
	MinCompliance       float64  `json:"min_compliance" yaml:"min_compliance"`
	ExpectedBlocks      []string `json:"expected_blocks" yaml:"expected_blocks"`
}

// SectionRequirement is one mandatory section's checks. Nil check values
// mean the check is not configured and does not count toward completeness.
type SectionRequirement struct {
	Name        string  `json:"name" yaml:"name"`
	Weight      float64 `json:"weight" yaml:"weight"`
	MinTokens   *int    `json:"min_tokens,omitempty" yaml:"min_tokens,omitempty"`
	MinKeywords *int    `json:"min_keywords,omitempty" yaml:"min_keywords,omitempty"`
	MinNumbers  *int    `json:"min_numbers,omitempty" yaml:"min_numbers,omitempty"`
	MinSources  *int    `json:"min_sources,omitempty" yaml:"min_sources,omitempty"`
}

// IndicatorConfig drives the I component and its hard gate.
type IndicatorConfig struct {
	Weights struct {
		Structure float64 `json:"structure" yaml:"structure"`
		Linkage   float64 `json:"linkage" yaml:"linkage"`
		Logic     float64 `json:"logic" yaml:"logic"`
	} `json:"weights" yaml:"weights"`
	CriticalFields               []string `json:"critical_fields" yaml:"critical_fields"`
	OptionalFields               []string `json:"optional_fields" yaml:"optional_fields"`
	CriticalFieldsWeight         float64  `json:"critical_fields_weight" yaml:"critical_fields_weight"`
	PlaceholderValues            []string `json:"placeholder_values" yaml:"placeholder_values"`
	PlaceholderPenaltyMultiplier float64  `json:"placeholder_penalty_multiplier" yaml:"placeholder_penalty_multiplier"`
	StructHardGate               float64  `json:"struct_hard_gate" yaml:"struct_hard_gate"`
	LinkageField1                string   `json:"linkage_field_1" yaml:"linkage_field_1"`
	LinkageField2                string   `json:"linkage_field_2" yaml:"linkage_field_2"`
	LinkageMinSharedWords        int      `json:"linkage_min_shared_words" yaml:"linkage_min_shared_words"`
	BaselineYearField            string   `json:"baseline_year_field" yaml:"baseline_year_field"`
	BaselineYearMin              int      `json:"baseline_year_min" yaml:"baseline_year_min"`
	BaselineYearMax              int      `json:"baseline_year_max" yaml:"baseline_year_max"`
}

// InvestmentConfig drives the P component.
type InvestmentConfig struct {
	Weights struct {
		Presence    float64 `json:"presence" yaml:"presence"`
		Structure   float64 `json:"structure" yaml:"structure"`
		Consistency float64 `json:"consistency" yaml:"consistency"`
	} `json:"weights" yaml:"weights"`
	AccountingTolerance float64  `json:"accounting_tolerance" yaml:"accounting_tolerance"`
	PeriodYears         []string `json:"period_years" yaml:"period_years"`
	FundingSources      []string `json:"funding_sources" yaml:"funding_sources"`
}

// GamingConfig drives the capped anti-gaming penalty.
type GamingConfig struct {
	MaxPlaceholderRatio     float64  `json:"max_placeholder_ratio" yaml:"max_placeholder_ratio"`
	PlaceholderPenaltyScale float64  `json:"placeholder_penalty_scale" yaml:"placeholder_penalty_scale"`
	MinUniqueCostRatio      float64  `json:"min_unique_cost_ratio" yaml:"min_unique_cost_ratio"`
	UniquenessPenaltyScale  float64  `json:"uniqueness_penalty_scale" yaml:"uniqueness_penalty_scale"`
	MinNumberDensity        float64  `json:"min_number_density" yaml:"min_number_density"`
	DensityPenaltyScale     float64  `json:"density_penalty_scale" yaml:"density_penalty_scale"`
	Cap                     float64  `json:"cap" yaml:"cap"`
	CriticalSections        []string `json:"critical_sections" yaml:"critical_sections"`
}

// MetaConfig drives the meta evaluator: component weights, the two 4-level
// discrete lookups, and the runtime cost tiers.
type MetaConfig struct {
	Weights struct {
		Transparency float64 `json:"transparency" yaml:"transparency"`
		Governance   float64 `json:"governance" yaml:"governance"`
		Cost         float64 `json:"cost" yaml:"cost"`
	} `json:"weights" yaml:"weights"`

	// Levels are indexed by how many of the three booleans are true
	// (index 0 = none, index 3 = all three).
	TransparencyLevels []float64 `json:"transparency_levels" yaml:"transparency_levels"`
	GovernanceLevels   []float64 `json:"governance_levels" yaml:"governance_levels"`

	Cost CostConfig `json:"cost" yaml:"cost"`
}

// CostConfig is the runtime cost tier lookup.
type CostConfig struct {
	FastMillis       int64   `json:"fast_millis" yaml:"fast_millis"`
	AcceptableMillis int64   `json:"acceptable_millis" yaml:"acceptable_millis"`
	Fast             float64 `json:"fast" yaml:"fast"`
	Acceptable       float64 `json:"acceptable" yaml:"acceptable"`
	Slow             float64 `json:"slow" yaml:"slow"`
}

// CongruenceConfig names the allowed ensemble fusion rules.
type CongruenceConfig struct {
	FusionRules []string `json:"fusion_rules" yaml:"fusion_rules"`
}
