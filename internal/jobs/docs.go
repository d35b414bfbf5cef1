// Package jobs provides the scheduled background work of the marketplace service.
//
// Scheduling is built on github.com/robfig/cron/v3. A single CronTicker hosts the
// ticks of every courier tracking session; each session registers its own constant
// delay entry and removes it when the courier arrives or the session is cancelled.
//
// # Usage
//
//	ticker := jobs.NewCronTicker(logger)
//	registry, err := courier.NewRegistry(ticker, publisher, origins, logger)
//
//	jobManager := jobs.NewJobManager(ticker, registry, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll(shutdownCtx)
//
// # Scheduling
//
// The scheduler resolution is one second, so tick intervals are whole seconds.
// A tick still running when its next run is due is skipped rather than queued.
//
// # Error Handling
//
//   - Panics inside ticks are recovered and logged
//   - Shutdown cancels sessions first so no new events are published while the
//     scheduler drains
package jobs
