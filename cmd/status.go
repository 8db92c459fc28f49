package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show blocking state, query statistics and version info",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	overview, err := client.Overview(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}

	blocking := overview.Blocking.Blocking
	if overview.Blocking.Timer != nil {
		blocking = fmt.Sprintf("%s (reverts in %.0fs)", blocking, *overview.Blocking.Timer)
	}

	fmt.Printf("Blocking:        %s\n", blocking)
	fmt.Printf("Queries today:   %d (%.1f%% blocked)\n",
		overview.Summary.Queries.Total, overview.Summary.Queries.PercentBlocked)
	fmt.Printf("Blocked today:   %d\n", overview.Summary.Queries.Blocked)
	fmt.Printf("Active clients:  %d\n", overview.Summary.Clients.Active)
	fmt.Printf("Gravity domains: %d\n", overview.Summary.Gravity.DomainsBeingBlocked)

	if core := overview.Version.Version.Core.Local.Version; core != nil {
		fmt.Printf("Pi-hole version: %s\n", *core)
	}

	if updates := overview.Version.Updates(); len(updates) > 0 {
		for _, update := range updates {
			fmt.Printf("Update available: %s %s -> %s\n", update.Name, update.Local, update.Remote)
		}
	}

	return nil
}
