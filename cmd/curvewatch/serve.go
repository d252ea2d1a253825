package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/curvewatch/curvewatch/internal/config"
	"github.com/curvewatch/curvewatch/internal/server"
	"github.com/curvewatch/curvewatch/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cached observations, reports and charts over HTTP",
	Long: `Start the curvewatch HTTP server.

  GET /health                      Health check
  GET /api/series/{id}?start=      Cached observations as JSON
  GET /api/reports/latest?key=     Most recent report for a key
  GET /charts/{file}               Rendered chart PNGs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, store).Start(ctx)
}
