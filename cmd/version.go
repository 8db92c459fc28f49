package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI and Pi-hole component versions",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("pihole6 %s (built %s)\n", appVersion, buildTime)

	info, err := client.Version(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch server versions: %w", err)
	}

	printComponent := func(name string, local, remote *string) {
		line := fmt.Sprintf("%-5s", name)
		if local != nil {
			line += " " + *local
		} else {
			line += " unknown"
		}
		if remote != nil {
			line += fmt.Sprintf(" (latest %s)", *remote)
		}
		fmt.Println(line)
	}

	printComponent("core", info.Version.Core.Local.Version, info.Version.Core.Remote.Version)
	printComponent("web", info.Version.Web.Local.Version, info.Version.Web.Remote.Version)
	printComponent("ftl", info.Version.FTL.Local.Version, info.Version.FTL.Remote.Version)

	for _, update := range info.Updates() {
		fmt.Printf("update available: %s %s -> %s\n", update.Name, update.Local, update.Remote)
	}
	return nil
}
