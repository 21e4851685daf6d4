// Package configtest provides a valid registry document set for tests.
// Callers take the default set, override or break individual documents,
// and write the result to a temp dir for a Store to load.
package configtest

import (
	"os"
	"path/filepath"
	"testing"
)

// Docs maps document base name (catalog, intrinsic, compatibility, fusion,
// thresholds) to YAML content.
type Docs map[string]string

// Valid returns a fresh copy of a complete, valid document set.
func Valid() Docs {
	return Docs{
		"catalog":       catalogYAML,
		"intrinsic":     intrinsicYAML,
		"compatibility": compatibilityYAML,
		"fusion":        fusionYAML,
		"thresholds":    thresholdsYAML,
	}
}

// Write writes the documents into a temp dir and returns its path.
func Write(t *testing.T, docs Docs) string {
	t.Helper()
	dir := t.TempDir()
	for base, content := range docs {
		path := filepath.Join(dir, base+".yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}

const catalogYAML = `
version: 1
methods:
  - canonical: plan_scorer
    class: PlanScorer
    method: score
    role: analyzer
    output_range: [0.0, 1.0]
    semantic_tags: [scoring, plan]
    fusion_requirements: [plan_summary]
    required_inputs: [plan_summary]
    optional_inputs: [history, baseline]
    critical_optional: [baseline]
  - canonical: indicator_extractor
    class: IndicatorExtractor
    method: extract
    role: extractor
    output_range: [0.0, 1.0]
    semantic_tags: [scoring, plan]
    fusion_requirements: [plan_summary]
    required_inputs: [plan_summary]
  - canonical: doc_ingestor
    class: DocIngestor
    method: ingest
    role: ingest
    required_inputs: [raw_document]
  - canonical: coverage_analyzer
    class: CoverageAnalyzer
    method: analyze
    role: analyzer
    output_range: [0.0, 1.0]
    semantic_tags: [coverage, plan]
    required_inputs: [doc_ingestor_output]
  - canonical: format_helper
    class: FormatHelper
    method: run
    role: utility
ensembles:
  - id: plan_quality
    participants: [plan_scorer, indicator_extractor]
    fusion_rule: weighted_average
`

const intrinsicYAML = `
base_weights:
  theory: 0.4
  impl: 0.35
  deploy: 0.25
methods:
  plan_scorer:
    theory: 0.9
    impl: 0.85
    deploy: 0.8
    status: computed
    role: analyzer
  indicator_extractor:
    theory: 0.8
    impl: 0.75
    deploy: 0.7
    status: computed
    role: extractor
  doc_ingestor:
    theory: 0.85
    impl: 0.9
    deploy: 0.85
    status: computed
    role: ingest
  format_helper:
    theory: 0.6
    impl: 0.8
    deploy: 0.9
    status: computed
    role: utility
  legacy_migrator:
    status: excluded
`

const compatibilityYAML = `
anti_universality_threshold: 0.9
methods:
  plan_scorer:
    questions: {Q1: 1.0, Q2: 0.7, Q3: 0.3}
    dimensions: {DIM01: 1.0, DIM02: 0.7, DIM03: 0.3}
    policies: {PA01: 0.7, PA02: 0.3}
  indicator_extractor:
    questions: {Q1: 0.7, Q4: 1.0}
    dimensions: {DIM01: 0.7, DIM04: 1.0}
    policies: {PA01: 1.0, PA03: 0.3}
`

const fusionYAML = `
roles:
  analyzer:
    linear:
      base: 0.2
      unit: 0.2
      question: 0.1
      dimension: 0.1
      policy: 0.1
      congruence: 0.1
      chain: 0.1
      meta: 0.05
    interactions:
      - layers: [base, unit]
        weight: 0.05
  score:
    linear:
      base: 0.25
      unit: 0.25
      question: 0.1
      dimension: 0.1
      policy: 0.1
      congruence: 0.05
      chain: 0.1
      meta: 0.05
  core:
    linear:
      base: 0.2
      unit: 0.2
      question: 0.1
      dimension: 0.1
      policy: 0.1
      congruence: 0.1
      chain: 0.1
      meta: 0.1
  extractor:
    linear:
      base: 0.3
      unit: 0.3
      chain: 0.2
      meta: 0.2
  ingest:
    linear:
      base: 0.3
      unit: 0.3
      chain: 0.2
      meta: 0.2
  processor:
    linear:
      base: 0.3
      unit: 0.3
      chain: 0.2
      meta: 0.2
  utility:
    linear:
      base: 0.4
      chain: 0.4
      meta: 0.2
  orchestrator:
    linear:
      base: 0.4
      chain: 0.4
      meta: 0.2
`

const thresholdsYAML = `
default_threshold: 0.7
conditional_pass_ratio: 0.8
executor_pattern: "^D[0-9]+_Q[0-9]+$"
executor_default_threshold: 0.75
executor_thresholds:
  D1_Q1: 0.8
role_thresholds:
  analyzer: 0.7
  extractor: 0.65
  ingest: 0.6
  utility: 0.5
base_quality:
  excellent: 0.85
  good: 0.7
  acceptable: 0.5
penalties:
  uncalibrated_method: 0.3
  undeclared_compatibility: 0.1
unit:
  aggregation: weighted_average
  weights:
    structure: 0.25
    sections: 0.25
    indicators: 0.3
    investment: 0.2
  structure:
    weights:
      coverage: 0.5
      hierarchy: 0.3
      order: 0.2
    min_block_tokens: 50
    min_block_numbers: 1
    hierarchy_excellent: 0.9
    hierarchy_acceptable: 0.6
    min_compliance: 0.3
    expected_blocks: [diagnostic, strategic, programmatic, investment_plan, monitoring]
  sections:
    - name: diagnostic
      weight: 0.3
      min_tokens: 200
      min_numbers: 5
      min_sources: 2
    - name: strategic
      weight: 0.4
      min_tokens: 150
      min_keywords: 3
    - name: monitoring
      weight: 0.3
      min_tokens: 100
  indicators:
    weights:
      structure: 0.4
      linkage: 0.3
      logic: 0.3
    critical_fields: [name, baseline, target, unit]
    optional_fields: [source, frequency]
    critical_fields_weight: 0.7
    placeholder_values: ["tbd", "n/a", "pending", "xxx"]
    placeholder_penalty_multiplier: 0.3
    struct_hard_gate: 0.3
    linkage_field_1: program
    linkage_field_2: strategic_line
    linkage_min_shared_words: 2
    baseline_year_field: baseline_year
    baseline_year_min: 2015
    baseline_year_max: 2035
  investment:
    weights:
      presence: 0.3
      structure: 0.3
      consistency: 0.4
    accounting_tolerance: 0.01
    period_years: ["2024", "2025", "2026", "2027"]
    funding_sources: [own, transfers, royalties, credit]
  require_indicator_matrix: true
  require_investment_matrix: true
  gaming:
    max_placeholder_ratio: 0.2
    placeholder_penalty_scale: 0.5
    min_unique_cost_ratio: 0.3
    uniqueness_penalty_scale: 0.3
    min_number_density: 0.02
    density_penalty_scale: 2.0
    cap: 0.3
    critical_sections: [diagnostic, monitoring]
meta:
  weights:
    transparency: 0.4
    governance: 0.4
    cost: 0.2
  transparency_levels: [0.0, 0.4, 0.7, 1.0]
  governance_levels: [0.0, 0.33, 0.66, 1.0]
  cost:
    fast_millis: 1000
    acceptable_millis: 10000
    fast: 1.0
    acceptable: 0.7
    slow: 0.4
congruence:
  fusion_rules: [weighted_average, max, min, product, custom]
`
