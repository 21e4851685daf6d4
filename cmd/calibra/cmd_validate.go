package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"calibra/internal/ingest"
	"calibra/internal/layers"
	"calibra/internal/score"
	"calibra/internal/validate"
)

var validateFlags struct {
	method      string
	question    string
	dimension   string
	policy      string
	unitQuality float64
	inputs      []string
	summaryPath string
	threshold   float64
	asJSON      bool

	formulaExported bool
	traceComplete   bool
	logsConformant  bool
	versionTagged   bool
	hashMatch       bool
	signatureValid  bool
	runtimeMillis   int64
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one method in a context and print the decision",
	RunE:  runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateFlags.method, "method", "", "Method identifier (required)")
	f.StringVar(&validateFlags.question, "question", "", "Question identifier (Qnnn)")
	f.StringVar(&validateFlags.dimension, "dimension", "", "Dimension identifier (DIMnn)")
	f.StringVar(&validateFlags.policy, "policy", "", "Policy-area identifier (PAnn)")
	f.Float64Var(&validateFlags.unitQuality, "unit-quality", 0, "Pre-supplied unit quality when no summary is given")
	f.StringSliceVar(&validateFlags.inputs, "input", nil, "Available input (repeatable)")
	f.StringVar(&validateFlags.summaryPath, "summary", "", "Path to the document summary (YAML/JSON)")
	f.Float64Var(&validateFlags.threshold, "threshold", -1, "Explicit threshold override (-1 = configured)")
	f.BoolVar(&validateFlags.asJSON, "json", false, "Print the full result as JSON")

	f.BoolVar(&validateFlags.formulaExported, "formula-exported", false, "Evidence: scoring formula was exported")
	f.BoolVar(&validateFlags.traceComplete, "trace-complete", false, "Evidence: execution trace is complete")
	f.BoolVar(&validateFlags.logsConformant, "logs-conformant", false, "Evidence: logs conform to schema")
	f.BoolVar(&validateFlags.versionTagged, "version-tagged", false, "Evidence: method version is tagged")
	f.BoolVar(&validateFlags.hashMatch, "config-hash-match", false, "Evidence: configuration hash matches")
	f.BoolVar(&validateFlags.signatureValid, "signature-valid", false, "Evidence: signature is valid")
	f.Int64Var(&validateFlags.runtimeMillis, "runtime-ms", 0, "Evidence: runtime in milliseconds")
	_ = validateCmd.MarkFlagRequired("method")
}

func runValidate(_ *cobra.Command, _ []string) error {
	v, err := validate.New(configStore())
	if err != nil {
		return err
	}

	ctx, err := score.NewContext(
		validateFlags.question, validateFlags.dimension, validateFlags.policy,
		validateFlags.unitQuality)
	if err != nil {
		return err
	}

	var summary *ingest.Summary
	if validateFlags.summaryPath != "" {
		summary, err = ingest.LoadFromPath(validateFlags.summaryPath)
		if err != nil {
			return err
		}
	}

	req := layers.Request{
		Subject: score.CalibrationSubject{
			MethodID:        validateFlags.method,
			GraphConfigHash: v.Docs().Hash,
			Context:         ctx,
		},
		Summary: summary,
		Inputs:  validateFlags.inputs,
		Evidence: layers.Evidence{
			FormulaExported: validateFlags.formulaExported,
			TraceComplete:   validateFlags.traceComplete,
			LogsConformant:  validateFlags.logsConformant,
			VersionTagged:   validateFlags.versionTagged,
			ConfigHashMatch: validateFlags.hashMatch,
			SignatureValid:  validateFlags.signatureValid,
			RuntimeMillis:   validateFlags.runtimeMillis,
		},
	}

	var override *float64
	if validateFlags.threshold >= 0 {
		override = &validateFlags.threshold
	}
	result := v.Validate(req, override)

	if validateFlags.asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s  %s  score %.3f (threshold %.2f)\n",
		result.Decision, result.MethodID, result.Score, result.Threshold)
	for _, layer := range score.SortedLayers(result.LayerScores) {
		ls := result.LayerScores[layer]
		fmt.Printf("  %-10s %.3f  %s\n", ls.Layer, ls.Score, ls.Rationale)
	}
	if result.Decision == score.DecisionFail {
		fmt.Printf("Reason: %s\n", result.FailureReason)
		if result.FailureDetails != "" {
			fmt.Printf("Details: %s\n", result.FailureDetails)
		}
		for _, rec := range result.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
	return nil
}
