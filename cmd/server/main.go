/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the holiday pay server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Build the payroll rules and transformer
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides APP_PORT)
  -env     .env file to load (default: ./.env if present)
  -rules   Rules JSON file (overrides RULES_FILE)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit

EXAMPLES:
  # Run with defaults
  ./server

  # Legacy rules on a different port
  RULES_PRESET=legacy ./server -port=3000

ENVIRONMENT:
  See config/config.go for the full list.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Environment variables
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/holiday-pay/api"
	"github.com/warp/holiday-pay/config"
	"github.com/warp/holiday-pay/payroll"
)

func main() {
	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides APP_PORT)")
	envFile := flag.String("env", "", ".env file to load")
	rulesFile := flag.String("rules", "", "Rules JSON file (overrides RULES_FILE)")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.App.Port = *port
	}
	if *rulesFile != "" {
		cfg.Rules.File = *rulesFile
	}

	logger := api.NewLogger(os.Stdout, cfg.App)
	slog.SetDefault(logger)

	// Initialize transformer
	rules, err := cfg.Rules.PayrollRules()
	if err != nil {
		logger.Error("Failed to build payroll rules", slog.Any("error", err))
		os.Exit(1)
	}
	transformer, err := payroll.NewTransformer(rules)
	if err != nil {
		logger.Error("Failed to create transformer", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize handler
	handler := api.NewHandler(transformer, logger)

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting",
			slog.Int("port", cfg.App.Port),
			slog.String("preset", cfg.Rules.Preset),
			slog.String("deduction", string(rules.Deduction)),
			slog.String("formula", string(rules.Formula)),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
