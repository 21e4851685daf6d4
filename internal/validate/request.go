package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"calibra/internal/ingest"
	"calibra/internal/layers"
	"calibra/internal/score"
)

// RequestDoc is the on-disk shape of one validation request, as produced
// by the orchestrator or written by hand for the CLI.
type RequestDoc struct {
	MethodID      string `json:"method_id" yaml:"method_id"`
	MethodVersion string `json:"method_version,omitempty" yaml:"method_version,omitempty"`
	SubgraphID    string `json:"subgraph_id,omitempty" yaml:"subgraph_id,omitempty"`

	QuestionID  string  `json:"question_id,omitempty" yaml:"question_id,omitempty"`
	DimensionID string  `json:"dimension_id,omitempty" yaml:"dimension_id,omitempty"`
	PolicyID    string  `json:"policy_id,omitempty" yaml:"policy_id,omitempty"`
	UnitQuality float64 `json:"unit_quality,omitempty" yaml:"unit_quality,omitempty"`

	Inputs   []string        `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Evidence layers.Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// Summary carries the document evidence inline; SummaryPath points at
	// a separate summary file instead. Inline wins when both are set.
	Summary     *ingest.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	SummaryPath string          `json:"summary_path,omitempty" yaml:"summary_path,omitempty"`

	Threshold *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// BatchDoc is the on-disk shape of a batch request.
type BatchDoc struct {
	Methods []RequestDoc `json:"methods" yaml:"methods"`
}

// Build converts the document into a validated request. Paths in the
// document resolve relative to baseDir.
func (d RequestDoc) Build(configHash, baseDir string) (BatchItem, error) {
	if d.MethodID == "" {
		return BatchItem{}, fmt.Errorf("method_id is required")
	}
	ctx, err := score.NewContext(d.QuestionID, d.DimensionID, d.PolicyID, d.UnitQuality)
	if err != nil {
		return BatchItem{}, fmt.Errorf("method %s: %w", d.MethodID, err)
	}

	summary := d.Summary
	if summary == nil && d.SummaryPath != "" {
		path := d.SummaryPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		summary, err = ingest.LoadFromPath(path)
		if err != nil {
			return BatchItem{}, fmt.Errorf("method %s: %w", d.MethodID, err)
		}
	}

	return BatchItem{
		Request: layers.Request{
			Subject: score.CalibrationSubject{
				MethodID:        d.MethodID,
				MethodVersion:   d.MethodVersion,
				GraphConfigHash: configHash,
				SubgraphID:      d.SubgraphID,
				Context:         ctx,
			},
			Summary:  summary,
			Inputs:   d.Inputs,
			Evidence: d.Evidence,
		},
		Override: d.Threshold,
	}, nil
}

// LoadBatch reads a batch document (YAML or JSON, detected by extension)
// and builds the items. A file holding a single request document is
// accepted as a batch of one.
func LoadBatch(path, configHash string) ([]BatchItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal = json.Unmarshal
	}

	var batch BatchDoc
	if err := unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	if len(batch.Methods) == 0 {
		var single RequestDoc
		if err := unmarshal(data, &single); err == nil && single.MethodID != "" {
			batch.Methods = []RequestDoc{single}
		}
	}
	if len(batch.Methods) == 0 {
		return nil, fmt.Errorf("batch %s declares no methods", path)
	}

	baseDir := filepath.Dir(path)
	items := make([]BatchItem, 0, len(batch.Methods))
	for _, doc := range batch.Methods {
		item, err := doc.Build(configHash, baseDir)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
