// Package jobs provides scheduled background tasks for the dispatch engine.
//
// Jobs use github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// OfferCountdownJob runs every second and advances the countdown of every
// driver's live offer. An offer whose countdown reaches zero expires on that
// tick.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sessions, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Cron fires on wall-clock second boundaries, so the first tick of a new offer
// may come anywhere up to one second after it was presented.
package jobs
