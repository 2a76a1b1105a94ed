package perimeter

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/emberwatch/fireline/internal/models"
	"github.com/emberwatch/fireline/internal/observability"
	"github.com/emberwatch/fireline/internal/worker"
)

// BatchStats is the 3-way outcome count of one batch run. Skipped covers
// input-quality rejections; Failed covers computation faults.
type BatchStats struct {
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// BatchProcessor runs Process over whole collections with bounded
// concurrency. A single bad record never aborts the batch.
type BatchProcessor struct {
	workers int
	metrics *observability.Metrics
}

// NewBatchProcessor creates a batch processor. metrics may be nil.
func NewBatchProcessor(workers int, metrics *observability.Metrics) *BatchProcessor {
	if workers < 1 {
		workers = 1
	}
	return &BatchProcessor{workers: workers, metrics: metrics}
}

type batchJob struct {
	idx int
	raw models.RawFirePolygon
}

// ProcessAll processes every record and returns the survivors in input
// order plus the outcome counts.
func (b *BatchProcessor) ProcessAll(ctx context.Context, records []models.RawFirePolygon) ([]models.ProcessedPerimeter, BatchStats) {
	results := make([]*models.ProcessedPerimeter, len(records))

	var mu sync.Mutex
	var stats BatchStats

	pool := worker.NewPool(b.workers, b.workers*2, func(ctx context.Context, job batchJob) error {
		pp, err := Process(job.raw)

		mu.Lock()
		defer mu.Unlock()

		switch {
		case err == nil:
			results[job.idx] = &pp
			stats.Successful++
			b.count("successful")
		case errors.Is(err, ErrIncompleteRecord), errors.Is(err, ErrInvalidDuration):
			stats.Skipped++
			b.count("skipped")
			slog.Debug("skipped perimeter record", "id", job.raw.ID, "reason", err)
		default:
			stats.Failed++
			b.count("failed")
			slog.Warn("perimeter processing failed", "id", job.raw.ID, "error", err)
		}
		return err
	})

	pool.Start(ctx)
	for i, raw := range records {
		if !pool.Submit(ctx, batchJob{idx: i, raw: raw}) {
			slog.Warn("perimeter batch cancelled mid-submit", "submitted", i, "total", len(records))
			break
		}
	}
	pool.Stop()

	survivors := make([]models.ProcessedPerimeter, 0, stats.Successful)
	for _, r := range results {
		if r != nil {
			survivors = append(survivors, *r)
		}
	}

	slog.Info("perimeter batch complete",
		"total", len(records),
		"successful", stats.Successful,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return survivors, stats
}

func (b *BatchProcessor) count(outcome string) {
	if b.metrics != nil {
		b.metrics.PerimeterOutcomes.WithLabelValues(outcome).Inc()
	}
}
