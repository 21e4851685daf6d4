package validate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"calibra/internal/layers"
	"calibra/internal/score"
)

// BatchItem is one method to validate plus its optional threshold
// override.
type BatchItem struct {
	Request  layers.Request
	Override *float64
}

// ValidateBatch runs the validator over every item with a bounded worker
// pool and compiles the roll-up report. Individual failures never abort
// the batch; the aggregate decision is computed only after every item has
// finished.
func (v *Validator) ValidateBatch(ctx context.Context, items []BatchItem, workers int) score.ValidationReport {
	if workers < 1 {
		workers = 1
	}
	started := time.Now()
	results := make([]score.ValidationResult, len(items))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			results[i] = v.Validate(item.Request, item.Override)
			return nil
		})
	}
	_ = g.Wait() // every outcome is captured in its ValidationResult

	report := score.CompileReport(
		uuid.NewString(), v.docs.Hash, results,
		started, time.Now(), v.docs.Thresholds.ConditionalRatio)
	v.log.Info("batch validated",
		"run_id", report.RunID,
		"total", report.Total,
		"passed", report.Passed,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"aggregate", report.Aggregate)
	return report
}
