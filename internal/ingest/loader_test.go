package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

const summaryYAML = `
total_tokens: 800
blocks:
  diagnostic: {tokens: 300, numbers: 8}
  strategic: {tokens: 200, numbers: 4}
block_sequence: [diagnostic, strategic]
headers:
  - {text: "1. Diagnostic", valid_numbering: true}
  - {text: "Annex", valid_numbering: false}
sections:
  diagnostic: {present: true, tokens: 250, numbers: 6, sources: 3}
indicator_rows:
  - name: coverage rate
    baseline: "0.41"
    baseline_year: "2024"
investment_rows:
  - total: 1000
    by_year: {"2024": 400, "2025": 600}
    by_source: {own: 1000}
has_indicator_matrix: true
has_investment_matrix: true
`

const summaryJSON = `{
  "total_tokens": 800,
  "blocks": {"diagnostic": {"tokens": 300, "numbers": 8}},
  "has_indicator_matrix": true
}`

func TestLoadFromPath_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.yaml")
	if err := os.WriteFile(path, []byte(summaryYAML), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if s.TotalTokens != 800 {
		t.Errorf("total_tokens: got %d, want 800", s.TotalTokens)
	}
	if s.Blocks["diagnostic"].Numbers != 8 {
		t.Errorf("diagnostic numbers: got %d, want 8", s.Blocks["diagnostic"].Numbers)
	}
	if len(s.Headers) != 2 || s.Headers[1].ValidNumbering {
		t.Errorf("headers: got %+v", s.Headers)
	}
	if s.IndicatorRows[0]["baseline_year"] != "2024" {
		t.Errorf("baseline_year: got %q", s.IndicatorRows[0]["baseline_year"])
	}
	if s.InvestmentRows[0].ByYear["2025"] != 600 {
		t.Errorf("by_year 2025: got %v", s.InvestmentRows[0].ByYear["2025"])
	}
	if !s.HasInvestmentMatrix {
		t.Error("expected has_investment_matrix")
	}
}

func TestLoad_FormatDetection(t *testing.T) {
	t.Run("json by extension", func(t *testing.T) {
		s, err := Load([]byte(summaryJSON), ".json")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if s.TotalTokens != 800 || !s.HasIndicatorMatrix {
			t.Errorf("summary: %+v", s)
		}
	})

	t.Run("json by content", func(t *testing.T) {
		s, err := Load([]byte(summaryJSON), "")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if s.Blocks["diagnostic"].Tokens != 300 {
			t.Errorf("tokens: got %d", s.Blocks["diagnostic"].Tokens)
		}
	})

	t.Run("yaml by content", func(t *testing.T) {
		s, err := Load([]byte(summaryYAML), "")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if s.TotalTokens != 800 {
			t.Errorf("total_tokens: got %d", s.TotalTokens)
		}
	})

	t.Run("yml alias", func(t *testing.T) {
		if _, err := Load([]byte(summaryYAML), ".yml"); err != nil {
			t.Fatalf("Load: %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := Load([]byte("{not json"), ".json"); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestLoadFromPath_Missing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
