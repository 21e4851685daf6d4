// Package ingest defines the structural summary of a plan document as
// produced by the ingestion collaborator. The calibration core consumes
// this summary read-only; how the evidence is extracted from text is the
// collaborator's concern.
package ingest

// Summary is the parsed structural evidence for one plan document.
type Summary struct {
	TotalTokens int `json:"total_tokens" yaml:"total_tokens"`

	// Blocks maps block name to per-block token/number counts.
	Blocks map[string]BlockStats `json:"blocks" yaml:"blocks"`

	// BlockSequence lists block names in the order they appear.
	BlockSequence []string `json:"block_sequence" yaml:"block_sequence"`

	Headers []Header `json:"headers" yaml:"headers"`

	// Sections maps mandatory section name to its content stats.
	Sections map[string]SectionStats `json:"sections" yaml:"sections"`

	IndicatorRows  []IndicatorRow  `json:"indicator_rows" yaml:"indicator_rows"`
	InvestmentRows []InvestmentRow `json:"investment_rows" yaml:"investment_rows"`

	HasIndicatorMatrix  bool `json:"has_indicator_matrix" yaml:"has_indicator_matrix"`
	HasInvestmentMatrix bool `json:"has_investment_matrix" yaml:"has_investment_matrix"`
}

// BlockStats counts evidence found inside one document block.
type BlockStats struct {
	Tokens  int `json:"tokens" yaml:"tokens"`
	Numbers int `json:"numbers" yaml:"numbers"`
}

// Header is one document heading with its numbering validity.
type Header struct {
	Text           string `json:"text" yaml:"text"`
	ValidNumbering bool   `json:"valid_numbering" yaml:"valid_numbering"`
}

// SectionStats describes one mandatory section's content evidence.
type SectionStats struct {
	Present  bool `json:"present" yaml:"present"`
	Tokens   int  `json:"tokens" yaml:"tokens"`
	Keywords int  `json:"keywords" yaml:"keywords"`
	Numbers  int  `json:"numbers" yaml:"numbers"`
	Sources  int  `json:"sources" yaml:"sources"`
}

// IndicatorRow is one row of the indicator matrix, keyed by field name.
// Field names are configuration-driven; empty or placeholder values count
// as missing.
type IndicatorRow map[string]string

// InvestmentRow is one row of the investment-plan matrix with its cost
// breakdowns.
type InvestmentRow struct {
	Total    float64            `json:"total" yaml:"total"`
	ByYear   map[string]float64 `json:"by_year" yaml:"by_year"`
	BySource map[string]float64 `json:"by_source" yaml:"by_source"`
}
