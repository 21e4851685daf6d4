package layers

import (
	"testing"

	"calibra/internal/config"
	"calibra/internal/config/configtest"
	"calibra/internal/ingest"
	"calibra/internal/score"
)

func testDocs(t *testing.T) *config.Documents {
	t.Helper()
	dir := configtest.Write(t, configtest.Valid())
	docs, err := config.NewStore(dir).Documents()
	if err != nil {
		t.Fatalf("load test configuration: %v", err)
	}
	return docs
}

func subject(t *testing.T, methodID, questionID string) score.CalibrationSubject {
	t.Helper()
	ctx, err := score.NewContext(questionID, "DIM01", "PA01", 0.8)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return score.CalibrationSubject{MethodID: methodID, Context: ctx}
}

// goodSummary builds a summary that satisfies every structural and content
// check the default test configuration sets up.
func goodSummary() *ingest.Summary {
	blocks := map[string]ingest.BlockStats{
		"diagnostic":      {Tokens: 300, Numbers: 8},
		"strategic":       {Tokens: 200, Numbers: 4},
		"programmatic":    {Tokens: 180, Numbers: 6},
		"investment_plan": {Tokens: 150, Numbers: 12},
		"monitoring":      {Tokens: 120, Numbers: 5},
	}
	return &ingest.Summary{
		TotalTokens:   1200,
		Blocks:        blocks,
		BlockSequence: []string{"diagnostic", "strategic", "programmatic", "investment_plan", "monitoring"},
		Headers: []ingest.Header{
			{Text: "1. Diagnostic", ValidNumbering: true},
			{Text: "2. Strategic", ValidNumbering: true},
			{Text: "3. Programmatic", ValidNumbering: true},
		},
		Sections: map[string]ingest.SectionStats{
			"diagnostic": {Present: true, Tokens: 250, Numbers: 6, Sources: 3},
			"strategic":  {Present: true, Tokens: 180, Keywords: 4},
			"monitoring": {Present: true, Tokens: 120, Numbers: 5},
		},
		IndicatorRows: []ingest.IndicatorRow{
			{
				"name": "coverage rate", "baseline": "0.41", "target": "0.60", "unit": "percent",
				"source": "census", "frequency": "annual",
				"program": "water access program", "strategic_line": "rural water access",
				"baseline_year": "2024",
			},
			{
				"name": "school completion", "baseline": "0.72", "target": "0.85", "unit": "percent",
				"source": "ministry", "frequency": "annual",
				"program": "education quality program", "strategic_line": "education quality line",
				"baseline_year": "2023",
			},
		},
		InvestmentRows: []ingest.InvestmentRow{
			{
				Total:    1000,
				ByYear:   map[string]float64{"2024": 400, "2025": 600},
				BySource: map[string]float64{"own": 300, "transfers": 700},
			},
			{
				Total:    500,
				ByYear:   map[string]float64{"2024": 250, "2025": 250.5},
				BySource: map[string]float64{"own": 499},
			},
		},
		HasIndicatorMatrix:  true,
		HasInvestmentMatrix: true,
	}
}
