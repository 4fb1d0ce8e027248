// Package main provides the creative_agent CLI: one-shot campaign runs,
// brand color extraction and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/creative-engine/internal/config"
	"github.com/jonathan/creative-engine/internal/observability"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg         *config.Config
	logger      = zap.NewNop()
	flushLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "creative_agent",
	Short: "Recruitment creative engine",
	Long: `creative_agent turns a job posting and a company name into a campaign of branded
recruitment creatives: brand colors from the company website, copy variants,
one base image per designer type, and a composed overlay per variant.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON, YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json or console (overrides config)")
}

// setup loads configuration and installs the process logger.
func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if logFormat != "" {
		loaded.LogFormat = logFormat
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, flush, err := observability.Install(loaded.LogLevel, loaded.LogFormat)
	if err != nil {
		return err
	}
	cfg, logger, flushLogger = loaded, l, flush
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	flushLogger()
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
