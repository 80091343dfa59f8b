package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aleister1102/ticketwatch/internal/console"
	"github.com/spf13/cobra"
)

// exitError carries a non-zero exit status for an outcome that was already reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCmd creates the root command. Without a subcommand it runs the monitor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticketwatch",
		Short: "Watch a ticketing page and email you when tickets appear",
		Long: `ticketwatch fetches a ticketing page every few minutes and checks that
every configured keyword appears in it. On the first match it sends an email
alert, follows up with reminder emails, and stops.

Configuration is read from --config, $TICKETWATCH_CONFIG_PATH, config.yaml in
the working directory or next to the binary, or the user config directory.
The SMTP password can be supplied through $TICKETWATCH_SMTP_PASSWORD.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMonitor,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML or JSON configuration file")
	cmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewTestEmailCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	return executeContext(context.Background(), args, stdout, stderr)
}

func executeContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		console.New(stdout).Crashed(err)
		return 1
	}
	return 0
}
