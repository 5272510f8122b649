// Package jobs defines the scheduled jobs of the collector.
package jobs

import (
	"context"
)

// CollectJob runs an ESG collection pass on a cron schedule.
// The run function carries the full fetch-write loop so the job
// stays decoupled from client and writer construction.
type CollectJob struct {
	schedule string
	run      func(ctx context.Context) error
}

// NewCollectJob creates the ESG collection job
func NewCollectJob(schedule string, run func(ctx context.Context) error) *CollectJob {
	return &CollectJob{
		schedule: schedule,
		run:      run,
	}
}

// Name returns the job name
func (j *CollectJob) Name() string {
	return "esg-collect"
}

// Schedule returns the cron schedule expression
func (j *CollectJob) Schedule() string {
	return j.schedule
}

// Run executes one collection pass
func (j *CollectJob) Run(ctx context.Context) error {
	return j.run(ctx)
}
