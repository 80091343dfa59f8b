package main

import (
	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/aleister1102/ticketwatch/internal/console"
	"github.com/aleister1102/ticketwatch/internal/httpclient"
	"github.com/aleister1102/ticketwatch/internal/logger"
	"github.com/aleister1102/ticketwatch/internal/monitor"
	"github.com/aleister1102/ticketwatch/internal/notifier"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs: validated config, logger and console.
type app struct {
	cfg     *config.GlobalConfig
	log     *logger.Logger
	zl      zerolog.Logger
	console *console.Console
}

func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	cfg, err := config.LoadGlobalConfig(configPath, bootLogger)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogConfig.LogLevel = logLevel
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	log, err := logger.NewLoggerBuilder().
		WithConsoleOutput(cmd.ErrOrStderr()).
		WithConfig(cfg.LogConfig).
		Build()
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		zl:      *log.GetZerolog(),
		console: console.New(cmd.OutOrStdout()),
	}, nil
}

func (a *app) close() {
	if err := a.log.Close(); err != nil {
		a.zl.Warn().Err(err).Msg("Failed to close log sinks")
	}
}

func (a *app) newChecker() (*monitor.HTTPPageChecker, error) {
	client, err := httpclient.NewHTTPClientBuilder(a.zl).
		WithConfig(a.cfg.HTTPConfig).
		Build()
	if err != nil {
		return nil, err
	}
	return monitor.NewHTTPPageChecker(client, a.cfg.TargetConfig, a.console, a.zl), nil
}

func (a *app) newNotifier() *notifier.EmailNotifier {
	transport := notifier.NewSMTPTransport(a.cfg.EmailConfig, a.zl)
	return notifier.NewEmailNotifier(a.cfg.EmailConfig, a.cfg.TargetConfig, transport, a.console, a.zl)
}
