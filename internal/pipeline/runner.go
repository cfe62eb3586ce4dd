package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/element"
	"github.com/cedarwud/orbit-engine-sub008/internal/metrics"
)

// chainJob is a unit of work for the worker pool: one satellite's full chain.
type chainJob struct {
	index int
	set   *element.Set
}

// FailureRecord identifies one failed satellite in the run summary.
type FailureRecord struct {
	NORADID int
	Stage   string
	Err     string
}

// Summary aggregates per-run outcomes. Per-satellite failures are collected
// and reported; only systemic configuration problems fail a whole run.
type Summary struct {
	Satellites int
	Succeeded  int
	Failed     int
	Failures   []FailureRecord
}

// Runner executes per-satellite chains on a fixed worker pool. Chains are
// independent; there is no synchronization beyond collecting results, and a
// satellite either completes or fails atomically.
type Runner struct {
	workers int
	deps    Deps
	logger  *slog.Logger
}

// NewRunner creates a Runner with the given worker count.
func NewRunner(workers int, deps Deps, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	metrics.SetWorkersActive(workers)
	return &Runner{workers: workers, deps: deps, logger: logger}
}

// Run processes every satellite in sets over the ordered sample times.
// Results are returned in input order. Cancellation is honored between
// satellites, never mid-chain; satellites not started before cancellation
// are reported as failed with the context error.
func (r *Runner) Run(ctx context.Context, sets []element.Set, times []time.Time) ([]SatelliteResult, Summary) {
	results := make([]SatelliteResult, len(sets))
	jobs := make(chan chainJob, r.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				start := time.Now()
				res := RunChain(job.set, times, r.deps)
				connectable := 0
				for _, s := range res.Visibility {
					if s.Connectable {
						connectable++
					}
				}
				metrics.RecordChain(time.Since(start), connectable, len(res.Visibility), res.FailedStage)
				results[job.index] = res
			}
		}()
	}

	fed := len(sets)
feed:
	for i := range sets {
		if ctx.Err() != nil {
			fed = i
			break feed
		}
		select {
		case jobs <- chainJob{index: i, set: &sets[i]}:
		case <-ctx.Done():
			fed = i
			break feed // stop feeding; queued jobs still drain
		}
	}
	close(jobs)
	wg.Wait()

	// Satellites never fed count as failures, not silent zero-value results.
	for i := fed; i < len(sets); i++ {
		results[i] = SatelliteResult{
			NORADID:       sets[i].NORADID,
			Name:          sets[i].Name,
			Constellation: sets[i].Constellation,
			Err:           fmt.Errorf("NORAD %d: %w", sets[i].NORADID, ctx.Err()),
			FailedStage:   StageCancelled,
		}
	}

	summary := Summary{Satellites: len(sets)}
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, FailureRecord{
				NORADID: res.NORADID,
				Stage:   res.FailedStage,
				Err:     res.Err.Error(),
			})
			r.logger.Warn("satellite chain failed",
				"norad_id", res.NORADID,
				"stage", res.FailedStage,
				"error", res.Err,
			)
			continue
		}
		summary.Succeeded++
	}

	r.logger.Info("pipeline run complete",
		"satellites", summary.Satellites,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return results, summary
}
