package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var exportOutput string

// teleporterCmd represents the teleporter command group
var teleporterCmd = &cobra.Command{
	Use:   "teleporter",
	Short: "Export or import the Pi-hole configuration archive",
}

var teleporterExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the settings archive",
	RunE:  runTeleporterExport,
}

var teleporterImportCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Upload a settings archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeleporterImport,
}

func init() {
	teleporterExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default pi-hole_<date>.tar.gz)")

	teleporterCmd.AddCommand(teleporterExportCmd)
	teleporterCmd.AddCommand(teleporterImportCmd)
	rootCmd.AddCommand(teleporterCmd)
}

func runTeleporterExport(cmd *cobra.Command, args []string) error {
	archive, err := client.ExportSettings(context.Background())
	if err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	output := exportOutput
	if output == "" {
		output = fmt.Sprintf("pi-hole_%s.tar.gz", time.Now().Format("2006-01-02"))
	}

	if err := os.WriteFile(output, archive, 0o600); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	logger.Info().Str("file", output).Int("bytes", len(archive)).Msg("Settings exported")
	return nil
}

func runTeleporterImport(cmd *cobra.Command, args []string) error {
	result, err := client.ImportSettings(context.Background(), args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}

	logger.Info().Strs("files", result.Files).Msg("Settings imported")
	return nil
}
