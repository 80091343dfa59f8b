package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTestEmailCmd creates the test-email command.
func NewTestEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-email",
		Short: "Send one alert email now to verify the SMTP settings",
		Long: `Test-email sends a single alert through the configured SMTP relay without
checking the page. Use --sequence to preview a reminder instead of the first alert.`,
		Args: cobra.NoArgs,
		RunE: runTestEmail,
	}
	cmd.Flags().IntP("sequence", "s", 1, "Alert number to send (1 is the first alert)")
	return cmd
}

func runTestEmail(cmd *cobra.Command, _ []string) error {
	seq, _ := cmd.Flags().GetInt("sequence")
	if seq < 1 {
		return fmt.Errorf("--sequence must be at least 1, got %d", seq)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.newNotifier().Notify(cmd.Context(), seq); err != nil {
		return &exitError{code: 1}
	}
	return nil
}
