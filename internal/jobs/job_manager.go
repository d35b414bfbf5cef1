package jobs

import (
	"context"
	"log/slog"
)

// SessionCanceller ends every running tracking session.
type SessionCanceller interface {
	CancelAll() int
}

// JobManager coordinates the background work of the application.
// Provides a unified interface to start and stop it.
type JobManager struct {
	ticker   *CronTicker
	sessions SessionCanceller
	logger   *slog.Logger
}

// NewJobManager creates a job manager over the tick scheduler and the sessions it drives.
func NewJobManager(ticker *CronTicker, sessions SessionCanceller, logger *slog.Logger) *JobManager {
	return &JobManager{
		ticker:   ticker,
		sessions: sessions,
		logger:   logger.With("component", "job_manager"),
	}
}

// StartAll starts the tick scheduler.
func (jm *JobManager) StartAll() error {
	jm.ticker.Start()
	return nil
}

// StopAll cancels every tracking session and stops the scheduler, waiting for running
// ticks until ctx is done.
func (jm *JobManager) StopAll(ctx context.Context) {
	cancelled := jm.sessions.CancelAll()
	jm.logger.InfoContext(ctx, "Tracking sessions cancelled", "count", cancelled)

	select {
	case <-jm.ticker.Stop().Done():
	case <-ctx.Done():
		jm.logger.WarnContext(ctx, "Gave up waiting for running ticks", "error", ctx.Err())
	}
}
