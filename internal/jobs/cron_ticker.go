package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrIntervalTooShort is returned for tick intervals below the one second resolution
// of the scheduler.
var ErrIntervalTooShort = errors.New("tick interval must be at least one second")

// CronTicker schedules courier ticks on a shared cron scheduler. Intervals are rounded
// down to whole seconds. A tick that is still running when its next run is due is
// skipped, and a panicking tick is recovered and logged.
type CronTicker struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewCronTicker creates a stopped ticker; call Start to begin firing.
func NewCronTicker(logger *slog.Logger) *CronTicker {
	logger = logger.With("component", "cron_ticker")
	cronLog := cronLogger{logger: logger}

	return &CronTicker{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.SkipIfStillRunning(cronLog), cron.Recover(cronLog)),
		),
		logger: logger,
	}
}

// Every runs tick every interval until the returned stop is called. stop may be
// called repeatedly and from inside tick.
func (t *CronTicker) Every(interval time.Duration, tick func()) (func(), error) {
	if interval < time.Second {
		return nil, fmt.Errorf("%w: got %s", ErrIntervalTooShort, interval)
	}

	id := t.cron.Schedule(cron.Every(interval), cron.FuncJob(tick))

	var once sync.Once
	return func() {
		once.Do(func() { t.cron.Remove(id) })
	}, nil
}

// Scheduled returns the number of registered ticks.
func (t *CronTicker) Scheduled() int {
	return len(t.cron.Entries())
}

// Start begins firing ticks in the background.
func (t *CronTicker) Start() {
	t.cron.Start()
	t.logger.InfoContext(context.Background(), "Cron ticker started")
}

// Stop halts the scheduler. The returned context is done once running ticks finish.
func (t *CronTicker) Stop() context.Context {
	ctx := t.cron.Stop()
	t.logger.InfoContext(context.Background(), "Cron ticker stopped")
	return ctx
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
