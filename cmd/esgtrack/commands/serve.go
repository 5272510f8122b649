package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/esgtrack/internal/api"
	"github.com/wonny/esgtrack/internal/api/handlers"
	"github.com/wonny/esgtrack/internal/esg"
	"github.com/wonny/esgtrack/pkg/config"
	"github.com/wonny/esgtrack/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the REST API server over the collected ESG data.

Endpoints:
  GET  /health               - Health check
  GET  /metrics              - Prometheus metrics
  GET  /api/esg              - All collected rows
  GET  /api/esg/{ticker}     - Rows for one ticker
  POST /api/collect          - Trigger a collection run

Example:
  go run ./cmd/esgtrack serve
  go run ./cmd/esgtrack serve --port 8090`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== esgtrack API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if servePort != "" {
		cfg.Port = servePort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Create handler
	runFunc := func(ctx context.Context) (esg.Summary, error) {
		return runCollection(ctx, cfg, log)
	}
	esgHandler := handlers.NewESGHandler(cfg.Output.Path, runFunc, log)

	// 4. Create router
	router := api.NewRouter(esgHandler, log, cfg.MetricsEnabled)

	// 5. Create server
	server := api.New(cfg, log, router)

	// 6. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	if cfg.MetricsEnabled {
		fmt.Println("  GET  /metrics")
	}
	fmt.Println("  GET  /api/esg")
	fmt.Println("  GET  /api/esg/{ticker}")
	fmt.Println("  POST /api/collect")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
