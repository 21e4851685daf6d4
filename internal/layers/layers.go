// Package layers implements the six evaluator families behind the eight
// calibration layers. Every evaluator is a pure function over its request
// and the already-loaded configuration: no I/O, no shared mutable state,
// safe to call from many workers at once.
package layers

import (
	"calibra/internal/ingest"
	"calibra/internal/score"
)

// Evidence is the execution evidence the meta layer scores. The first
// three booleans drive transparency, the next three governance.
type Evidence struct {
	FormulaExported bool `json:"formula_exported" yaml:"formula_exported"`
	TraceComplete   bool `json:"trace_complete" yaml:"trace_complete"`
	LogsConformant  bool `json:"logs_conformant" yaml:"logs_conformant"`

	VersionTagged   bool `json:"version_tagged" yaml:"version_tagged"`
	ConfigHashMatch bool `json:"config_hash_match" yaml:"config_hash_match"`
	SignatureValid  bool `json:"signature_valid" yaml:"signature_valid"`

	RuntimeMillis int64 `json:"runtime_ms" yaml:"runtime_ms"`
}

// Request carries everything any evaluator may need for one subject.
// Evaluators read only the fields their layer concerns; a nil Summary is
// an error only for the unit layer.
type Request struct {
	Subject  score.CalibrationSubject
	Summary  *ingest.Summary
	Inputs   []string
	Evidence Evidence
}

// Evaluator scores one layer for a request. Implementations return an
// error only for malformed input; lookup misses degrade to documented
// penalty scores instead.
type Evaluator interface {
	Layer() score.LayerID
	Evaluate(req Request) (score.LayerScore, error)
}
