package jobs

import (
	"context"

	"github.com/taiseel/propcore/internal/valuation"
	"github.com/taiseel/propcore/pkg/logger"
)

// ValuationResyncJob keeps the current-period valuation snapshot fresh
// even when no unit mutation arrives through the API.
type ValuationResyncJob struct {
	valuations *valuation.Service
	logger     *logger.Logger
}

// NewValuationResyncJob creates a new valuation resync job
func NewValuationResyncJob(valuations *valuation.Service, log *logger.Logger) *ValuationResyncJob {
	return &ValuationResyncJob{
		valuations: valuations,
		logger:     log,
	}
}

// Name returns the job name
func (j *ValuationResyncJob) Name() string {
	return "valuation_resync"
}

// Schedule returns the cron schedule (every night at 2 AM)
func (j *ValuationResyncJob) Schedule() string {
	return "0 0 2 * * *"
}

// Run executes the resync
func (j *ValuationResyncJob) Run(ctx context.Context) error {
	snap, err := j.valuations.Resync(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"label":       snap.Label,
		"total_value": snap.TotalValue,
	}).Info("Scheduled valuation resync completed")

	return nil
}
