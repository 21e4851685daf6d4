// Package report renders validation reports: a human-readable text summary
// for the CLI and a JSON certificate export for downstream audit.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"calibra/internal/score"
)

// Text renders a plain-text summary of a report.
func Text(r score.ValidationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Validation run %s\n", r.RunID)
	fmt.Fprintf(&b, "Config:    %s\n", r.ConfigHash)
	fmt.Fprintf(&b, "Started:   %s\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Finished:  %s\n", r.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Aggregate: %s (%d total, %d passed, %d failed, %d skipped)\n",
		r.Aggregate, r.Total, r.Passed, r.Failed, r.Skipped)
	if r.Passed+r.Failed > 0 {
		fmt.Fprintf(&b, "Pass ratio: %.2f\n", r.PassRatio)
	}
	b.WriteString("\n")

	for _, res := range r.Results {
		fmt.Fprintf(&b, "  %-16s %-24s score %.3f (threshold %.2f)\n",
			res.Decision, res.MethodID, res.Score, res.Threshold)
		if res.Decision == score.DecisionFail {
			fmt.Fprintf(&b, "      reason: %s\n", res.FailureReason)
			if res.FailureDetails != "" {
				fmt.Fprintf(&b, "      %s\n", res.FailureDetails)
			}
			for _, rec := range res.Recommendations {
				fmt.Fprintf(&b, "      - %s\n", rec)
			}
		}
	}
	return b.String()
}

// Certificate is the audit export of one method's decision: everything a
// reviewer needs to reproduce the score.
type Certificate struct {
	RunID       string                             `json:"run_id"`
	ConfigHash  string                             `json:"config_hash"`
	MethodID    string                             `json:"method_id"`
	Decision    score.Decision                     `json:"decision"`
	Score       float64                            `json:"score"`
	Threshold   float64                            `json:"threshold"`
	Layers      map[score.LayerID]score.LayerScore `json:"layers,omitempty"`
	Reason      score.FailureReason                `json:"failure_reason,omitempty"`
	Details     string                             `json:"failure_details,omitempty"`
	Remediation []string                           `json:"remediation,omitempty"`
}

// Certificates converts a report into per-method certificates.
func Certificates(r score.ValidationReport) []Certificate {
	certs := make([]Certificate, 0, len(r.Results))
	for _, res := range r.Results {
		certs = append(certs, Certificate{
			RunID:       r.RunID,
			ConfigHash:  r.ConfigHash,
			MethodID:    res.MethodID,
			Decision:    res.Decision,
			Score:       res.Score,
			Threshold:   res.Threshold,
			Layers:      res.LayerScores,
			Reason:      res.FailureReason,
			Details:     res.FailureDetails,
			Remediation: res.Recommendations,
		})
	}
	return certs
}

// JSON renders the full report as indented JSON.
func JSON(r score.ValidationReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}
