package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var disableTimer time.Duration

// enableCmd represents the enable command
var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable DNS blocking",
	RunE:  runEnable,
}

// disableCmd represents the disable command
var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable DNS blocking, optionally for a limited time",
	RunE:  runDisable,
}

func init() {
	disableCmd.Flags().DurationVar(&disableTimer, "for", 0, "re-enable blocking after this duration (e.g. 5m)")

	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	status, err := client.EnableBlocking(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enable blocking: %w", err)
	}

	logger.Info().Str("blocking", status.Blocking).Msg("Blocking enabled")
	return nil
}

func runDisable(cmd *cobra.Command, args []string) error {
	status, err := client.DisableBlocking(context.Background(), disableTimer)
	if err != nil {
		return fmt.Errorf("failed to disable blocking: %w", err)
	}

	event := logger.Info().Str("blocking", status.Blocking)
	if disableTimer > 0 {
		event = event.Dur("for", disableTimer)
	}
	event.Msg("Blocking disabled")
	return nil
}
