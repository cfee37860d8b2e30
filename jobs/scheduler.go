package jobs

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var errInvalidSchedule = errors.New("invalid schedule")

// ScheduleConfig is the process-wide schedule, fixed at startup.
type ScheduleConfig struct {
	DailyHour         uint
	DailyMinute       uint
	EmergencyInterval time.Duration
	Location          *time.Location
}

// Validate checks the schedule bounds.
func (c ScheduleConfig) Validate() error {
	switch {
	case c.DailyHour > 23:
		return fmt.Errorf("%w: daily hour %d", errInvalidSchedule, c.DailyHour)
	case c.DailyMinute > 59:
		return fmt.Errorf("%w: daily minute %d", errInvalidSchedule, c.DailyMinute)
	case c.EmergencyInterval < time.Minute:
		return fmt.Errorf("%w: emergency interval %s", errInvalidSchedule, c.EmergencyInterval)
	case c.Location == nil:
		return fmt.Errorf("%w: no location", errInvalidSchedule)
	}
	return nil
}

// Scheduler fires the daily and the emergency jobs.
// Firings of one job never overlap: a tick that comes while the previous run is in flight is skipped.
type Scheduler struct {
	cfg       ScheduleConfig
	scheduler gocron.Scheduler
}

// NewScheduler creates a stopped scheduler for cfg.
func NewScheduler(cfg ScheduleConfig, logger *slog.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(cfg.Location),
		gocron.WithLogger(newGocronLogger(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{cfg: cfg, scheduler: s}, nil
}

// Daily registers fn to run once a day at the configured wall-clock time.
func (s *Scheduler) Daily(name string, fn JobFunc) error {
	return s.add(
		name,
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(s.cfg.DailyHour, s.cfg.DailyMinute, 0))),
		fn,
	)
}

// Emergency registers fn to run every emergency interval.
func (s *Scheduler) Emergency(name string, fn JobFunc) error {
	return s.add(name, gocron.DurationJob(s.cfg.EmergencyInterval), fn)
}

func (s *Scheduler) add(name string, def gocron.JobDefinition, fn JobFunc) error {
	_, err := s.scheduler.NewJob(
		def,
		gocron.NewTask(func() { fn() }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	return nil
}

// NextRuns returns the next run time of every job by name.
func (s *Scheduler) NextRuns() map[string]time.Time {
	runs := make(map[string]time.Time)
	for _, j := range s.scheduler.Jobs() {
		if next, err := j.NextRun(); err == nil {
			runs[j.Name()] = next
		}
	}
	return runs
}

// Start starts the timers without blocking.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Shutdown stops the timers and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// gocronLogger routes gocron logs to slog.
type gocronLogger struct {
	logger *slog.Logger
}

func newGocronLogger(l *slog.Logger) gocron.Logger {
	return &gocronLogger{logger: l.With("component", "scheduler")}
}

func (l *gocronLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *gocronLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *gocronLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *gocronLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
