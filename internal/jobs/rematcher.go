package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"
	"golang.org/x/sync/errgroup"

	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/services"
)

const defaultConcurrency = 4

// Rematcher refreshes every job's cached candidate ranking on a schedule, so
// rankings stay warm instead of expiring between reads.
type Rematcher struct {
	store       graph.Store
	matching    services.MatchingService
	log         *logger.Logger
	schedule    string
	concurrency int
	cron        *cron.Cron
}

func NewRematcher(store graph.Store, matching services.MatchingService, log *logger.Logger, schedule string, concurrency int) *Rematcher {
	if schedule == "" {
		schedule = "@every 15m"
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Rematcher{
		store:       store,
		matching:    matching,
		log:         log.With("job", "Rematcher"),
		schedule:    schedule,
		concurrency: concurrency,
	}
}

// Start registers the schedule and begins running. Returns the AddFunc error
// for a malformed schedule; the scheduler itself never fails.
func (r *Rematcher) Start(ctx context.Context) error {
	c := cron.New()
	if err := c.AddFunc(r.schedule, func() { r.RunOnce(ctx) }); err != nil {
		return err
	}
	r.cron = c
	c.Start()
	r.log.Info("rematcher started", "schedule", r.schedule, "concurrency", r.concurrency)
	return nil
}

func (r *Rematcher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
		r.cron = nil
	}
}

// RunOnce refreshes every job now. A job that fails to match is logged and
// skipped; the pass continues so one bad job cannot starve the rest.
func (r *Rematcher) RunOnce(ctx context.Context) {
	start := time.Now()
	jobs, err := r.store.ListJobs(ctx)
	if err != nil {
		r.log.Warn("rematch pass skipped", "error", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	var refreshed, cached atomic.Int64
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			res, err := r.matching.Run(gctx, job.ID)
			if err != nil {
				r.log.Warn("rematch failed for job", "job_id", job.ID, "error", err)
				return nil
			}
			refreshed.Add(1)
			if res.Cached {
				cached.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	r.log.Info("rematch pass finished",
		"jobs", len(jobs),
		"refreshed", refreshed.Load(),
		"cached", cached.Load(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
