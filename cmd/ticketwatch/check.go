package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the page once and report whether it matches",
		Long: `Check fetches the configured page a single time and applies the keyword
rule. No email is sent. The exit status is 0 on a match and 1 otherwise.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	checker, err := a.newChecker()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	found, _ := checker.Check(ctx)
	if !found {
		return &exitError{code: 1}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "    Match found: %s\n", strings.Join(checker.Keywords(), ", "))
	return nil
}
