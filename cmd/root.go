package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gravelight/pihole6/config"
	"github.com/gravelight/pihole6/pihole"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *pihole.Client

	appVersion = "dev"
	buildTime  = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pihole6",
	Short: "Manage a Pi-hole 6 instance over its REST API",
	Long: `pihole6 is a CLI for the Pi-hole 6 REST API. It can inspect query
statistics and the query log, toggle DNS blocking, manage allow/deny
domains, and export or import the full configuration as a teleporter
archive.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: teardownApp,
}

// SetVersion records the build metadata injected by the linker.
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create Pi-hole client
	opts := []pihole.Option{
		pihole.WithTimeout(time.Duration(cfg.Pihole.TimeoutSeconds) * time.Second),
	}
	if cfg.Pihole.InsecureSkipVerify {
		opts = append(opts, pihole.WithInsecureSkipVerify())
	}

	client, err = pihole.NewClient(cfg.Pihole.URL, cfg.Pihole.Password, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Pi-hole client: %w", err)
	}

	return nil
}

// teardownApp releases the server-side session. Pi-hole caps concurrent
// sessions, so a short-lived CLI should not leave tokens behind.
func teardownApp(cmd *cobra.Command, args []string) error {
	if client == nil {
		return nil
	}
	if err := client.Logout(context.Background()); err != nil {
		logger.Debug().Err(err).Msg("Failed to close session")
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when writing to a terminal
	color := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
