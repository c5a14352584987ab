// Package scheduler drives the recurring stale-ticket check. One cron entry
// fires daily at a configured local wall-clock time; a manual trigger runs
// the identical cycle on demand. There is no persisted watermark: after a
// restart the process simply waits for the next scheduled time.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CycleRunner executes one check-and-notify cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Driver owns the cron engine and the single daily job.
type Driver struct {
	engine *cron.Cron
	runner CycleRunner
	logger *zap.Logger
	spec   string
}

// New builds a driver for the given "HH:MM" local time in the given IANA
// timezone. The cron chain recovers panics so a failing cycle never
// unregisters the entry or takes the process down.
func New(runner CycleRunner, logger *zap.Logger, dailyCheckTime, timezone string) (*Driver, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	spec, err := cronSpecFromClock(dailyCheckTime)
	if err != nil {
		return nil, err
	}

	cronLogger := zapCronLogger{logger: logger}
	engine := cron.New(
		cron.WithLocation(location),
		cron.WithChain(cron.Recover(cronLogger)),
	)

	return &Driver{
		engine: engine,
		runner: runner,
		logger: logger,
		spec:   spec,
	}, nil
}

// Start registers the daily job and starts the engine. Called exactly once
// at process startup.
func (d *Driver) Start() error {
	if _, err := d.engine.AddFunc(d.spec, d.runScheduled); err != nil {
		return fmt.Errorf("register stale-check job: %w", err)
	}
	d.engine.Start()
	d.logger.Info("ticket scheduler started", zap.String("cron_spec", d.spec))
	return nil
}

// Stop halts the engine and waits for an in-flight cycle to finish.
func (d *Driver) Stop() {
	ctx := d.engine.Stop()
	<-ctx.Done()
	d.logger.Info("ticket scheduler stopped")
}

// RunNow executes one cycle synchronously, independent of the timer. Used
// by the manual check endpoint; semantics are identical to a timer fire.
func (d *Driver) RunNow(ctx context.Context) error {
	d.logger.Info("manual stale-ticket check triggered")
	return d.runner.RunCycle(ctx)
}

func (d *Driver) runScheduled() {
	d.logger.Info("scheduled stale-ticket check triggered")
	if err := d.runner.RunCycle(context.Background()); err != nil {
		// logged only; the next tick proceeds normally
		d.logger.Error("stale-ticket cycle failed", zap.Error(err))
	}
}

// cronSpecFromClock converts "HH:MM" into a daily cron expression.
func cronSpecFromClock(clock string) (string, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid daily check time %q, want HH:MM", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in daily check time %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in daily check time %q", clock)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// zapCronLogger adapts zap to the cron.Logger interface.
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, zap.Any("details", keysAndValues))
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
