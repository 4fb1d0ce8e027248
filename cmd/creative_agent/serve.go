package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/creative-engine/internal/ratelimit"
	"github.com/jonathan/creative-engine/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server exposing POST /campaigns, GET /health, GET /metrics and DELETE /brand-cache/{company}.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// serverRateLimit builds the client rate limit configuration from cfg.
func serverRateLimit() *ratelimit.Config {
	limits := ratelimit.DefaultConfig()
	limits.Enabled = cfg.RateLimitEnabled
	limits.Whitelist = ratelimit.ParseClientList(cfg.RateLimitWhitelist)
	return limits
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	deps := server.Dependencies{
		Campaigns:  a.coordinator,
		BrandCache: a.brandCache,
		Metrics:    a.metricsHandler(),
		Logger:     logger.Named("server"),
	}
	if a.database != nil {
		deps.Store = a.database
	}

	srv, err := server.New(server.Config{
		Port:                port,
		DefaultVariantCount: cfg.DefaultVariantCount,
		RateLimit:           serverRateLimit(),
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
