package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	offerCountdownJob *OfferCountdownJob
}

func NewJobManager(sessions OfferTicker, logger *slog.Logger) *JobManager {
	return &JobManager{
		offerCountdownJob: NewOfferCountdownJob(sessions, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.offerCountdownJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer countdown job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.offerCountdownJob.Stop()
}
