package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/aleister1102/ticketwatch/internal/common"
	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/aleister1102/ticketwatch/internal/console"
	"github.com/aleister1102/ticketwatch/internal/metrics"
	"github.com/rs/zerolog"
)

// State is the scheduler phase.
type State string

const (
	StateWaiting   State = "WAITING"
	StateAlerting  State = "ALERTING"
	StateCompleted State = "COMPLETED"
	StateStopped   State = "STOPPED"
)

// WaitFunc blocks for d or until ctx is done, returning ctx.Err() in the latter case.
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the default WaitFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	return common.WaitWithCancellation(ctx, d)
}

// RunSummary describes what a Run did.
type RunSummary struct {
	Checks     int
	Attempted  int
	Sent       int
	Failed     int
	State      State
	DetectedAt time.Time
}

// Scheduler polls until the page matches, then sends the alert burst and stops.
type Scheduler struct {
	cfg      config.MonitorConfig
	target   config.TargetConfig
	checker  PageChecker
	notifier AlertNotifier
	console  *console.Console
	logger   zerolog.Logger
	wait     WaitFunc
	metrics  *metrics.Metrics
}

// NewScheduler creates a scheduler. cons may be nil to silence the transcript.
func NewScheduler(cfg config.MonitorConfig, target config.TargetConfig, checker PageChecker, notifier AlertNotifier, cons *console.Console, logger zerolog.Logger) *Scheduler {
	if cons == nil {
		cons = console.Discard()
	}
	return &Scheduler{
		cfg:      cfg,
		target:   target,
		checker:  checker,
		notifier: notifier,
		console:  cons,
		logger:   logger.With().Str("component", "Scheduler").Logger(),
		wait:     SleepContext,
	}
}

// WithWaitFunc replaces the timer used between checks and reminders.
func (s *Scheduler) WithWaitFunc(wait WaitFunc) *Scheduler {
	if wait != nil {
		s.wait = wait
	}
	return s
}

// WithMetrics records checks and deliveries on m.
func (s *Scheduler) WithMetrics(m *metrics.Metrics) *Scheduler {
	s.metrics = m
	return s
}

// Run blocks until the burst completes (nil error) or ctx is cancelled (ctx.Err()).
// A panic inside the loop is returned as an error.
func (s *Scheduler) Run(ctx context.Context) (summary RunSummary, err error) {
	summary.State = StateWaiting
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("Monitor loop panicked")
			summary.State = StateStopped
			err = fmt.Errorf("monitor loop panicked: %v", r)
		}
	}()

	s.logger.Info().
		Str("url", s.target.URL).
		Dur("check_interval", s.cfg.CheckInterval()).
		Int("burst_size", s.cfg.AlertBurstSize).
		Msg("Monitoring started")

	for {
		if err := common.CheckCancellationWithLog(ctx, s.logger, "page check"); err != nil {
			return s.stop(summary, err)
		}

		summary.Checks++
		started := time.Now()
		found, checkErr := s.checker.Check(ctx)
		s.metrics.ObserveCheck(checkResult(found, checkErr), time.Since(started))
		if checkErr != nil && !common.IsContextError(checkErr) {
			s.logger.Debug().Err(checkErr).Int("check", summary.Checks).Msg("Check treated as no match")
		}
		if found {
			break
		}

		if err := s.wait(ctx, s.cfg.CheckInterval()); err != nil {
			return s.stop(summary, err)
		}
	}

	summary.State = StateAlerting
	summary.DetectedAt = time.Now()
	s.metrics.SetAlerting(true)
	defer s.metrics.SetAlerting(false)
	s.logger.Info().Int("checks", summary.Checks).Msg("Target detected, starting alert burst")
	s.console.Detected(s.target.EventName, s.target.SiteName, s.target.URL)

	s.notify(ctx, 1, &summary)

	total := s.cfg.AlertBurstSize
	if total > 1 {
		s.console.BurstStarted(s.cfg.ReminderInterval(), total)
	}
	for seq := 2; seq <= total; seq++ {
		if err := s.wait(ctx, s.cfg.ReminderInterval()); err != nil {
			return s.stop(summary, err)
		}
		s.console.Reminder(seq, total)
		s.notify(ctx, seq, &summary)
	}

	summary.State = StateCompleted
	s.console.Completed()
	s.logger.Info().
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("Alert sequence completed")
	return summary, nil
}

func (s *Scheduler) notify(ctx context.Context, seq int, summary *RunSummary) {
	summary.Attempted++
	err := s.notifier.Notify(ctx, seq)
	s.metrics.ObserveAlert(err == nil)
	if err != nil {
		summary.Failed++
		s.logger.Error().Err(err).Int("sequence", seq).Msg("Alert not delivered")
		return
	}
	summary.Sent++
}

func (s *Scheduler) stop(summary RunSummary, err error) (RunSummary, error) {
	prev := summary.State
	summary.State = StateStopped
	s.logger.Info().
		Str("phase", string(prev)).
		Int("checks", summary.Checks).
		Int("attempted", summary.Attempted).
		Msg("Monitoring cancelled")
	return summary, err
}

func checkResult(found bool, err error) string {
	switch {
	case err != nil:
		return metrics.ResultError
	case found:
		return metrics.ResultMatch
	default:
		return metrics.ResultNoMatch
	}
}
