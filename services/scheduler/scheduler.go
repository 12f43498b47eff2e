package scheduler

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"
	"sjsage522/offerwatch/services/worker"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs once a day at 08:00 UTC
const DefaultSchedule = "0 8 * * *"

// Scheduler triggers snapshot runs on a cron schedule in UTC
type Scheduler struct {
	cron     *cron.Cron
	runner   worker.Runner
	ctx      context.Context
	cancel   context.CancelFunc
	schedule string
	entry    cron.EntryID
	logger   *logger.Logger
}

// New creates a scheduler for a standard five field cron expression
func New(runner worker.Runner, schedule string) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	log := logger.ForScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger{log: log}),
		),
		runner:   runner,
		ctx:      ctx,
		cancel:   cancel,
		schedule: schedule,
		logger:   log,
	}

	entry, err := s.cron.AddFunc(schedule, s.runJob)
	if err != nil {
		cancel()
		return nil, errors.NewConfiguration("SNAPSHOT_SCHEDULE", fmt.Sprintf("invalid cron expression %q", schedule), err)
	}
	s.entry = entry
	return s, nil
}

// Start begins firing runs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.schedule).
		Time("next_run", s.Next()).
		Msg("Scheduler started")
}

// Stop cancels any active run and waits for it to return
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// Next returns the next activation time, zero before Start
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

func (s *Scheduler) runJob() {
	result, err := s.runner.Run(s.ctx, worker.RunOptions{})
	if stderrors.Is(err, worker.ErrRunInProgress) {
		s.logger.Warn().Msg("Skipping scheduled run, previous run still active")
		return
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("type", string(errors.TypeOf(err))).
			Msg("Scheduled run failed")
		return
	}
	s.logger.Info().Msg(result.Summary())
}

// cronLogger adapts the cron library logger to zerolog
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
