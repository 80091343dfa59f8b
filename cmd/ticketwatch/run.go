package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/ticketwatch/internal/common"
	"github.com/aleister1102/ticketwatch/internal/metrics"
	"github.com/aleister1102/ticketwatch/internal/monitor"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Watch the page until tickets appear, then send the alert burst",
		Long: `Run checks the configured page on every interval. When all keywords are
present it sends the first alert immediately and the remaining reminders
spaced by the reminder interval, then exits.

Press Ctrl+C to stop watching.`,
		Args: cobra.NoArgs,
		RunE: runMonitor,
	}
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if missing := a.cfg.EmailConfig.Ready(); missing != "" {
		return common.NewConfigurationError("email_config", missing, "required to send alerts")
	}

	checker, err := a.newChecker()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.console.StartBanner(
		a.cfg.TargetConfig.SiteName,
		a.cfg.TargetConfig.EventName,
		a.cfg.MonitorConfig.CheckInterval(),
		a.cfg.EmailConfig.Recipient,
	)

	scheduler := monitor.NewScheduler(a.cfg.MonitorConfig, a.cfg.TargetConfig, checker, a.newNotifier(), a.console, a.zl)
	if addr := a.cfg.MonitorConfig.MetricsAddr; addr != "" {
		m := metrics.NewMetrics()
		scheduler.WithMetrics(m)
		go func() {
			if err := m.Serve(ctx, addr, a.zl); err != nil {
				a.zl.Error().Err(err).Str("addr", addr).Msg("Metrics endpoint stopped")
			}
		}()
	}
	summary, err := scheduler.Run(ctx)
	a.zl.Info().
		Int("checks", summary.Checks).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Str("state", string(summary.State)).
		Msg("Monitor finished")

	if errors.Is(err, context.Canceled) {
		a.console.Interrupted()
		return nil
	}
	return err
}
