package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type OfferTicker interface {
	TickAll() int
}

// OfferCountdownJob advances every live offer countdown by one second.
type OfferCountdownJob struct {
	sessions OfferTicker
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOfferCountdownJob(sessions OfferTicker, logger *slog.Logger) *OfferCountdownJob {
	return &OfferCountdownJob{
		sessions: sessions,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "offer_countdown_job"),
	}
}

// Start runs the job every second.
func (j *OfferCountdownJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer countdown job started (running every second)")
	return nil
}

// Stop waits for a running tick to finish.
func (j *OfferCountdownJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Offer countdown job stopped")
}

func (j *OfferCountdownJob) run() {
	if live := j.sessions.TickAll(); live > 0 {
		j.logger.DebugContext(context.Background(), "Offer countdowns ticked", "live_offers", live)
	}
}
