// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wizsmith/odoo-bridge/internal/api"
	"github.com/wizsmith/odoo-bridge/internal/config"
	xlog "github.com/wizsmith/odoo-bridge/internal/log"
)

var (
	version   = "v1.1.0"
	commit    = "none"
	buildDate = "unknown"
)

// maskURL removes user info from a URL string for safe logging.
func maskURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	return parsedURL.String()
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	xlog.Configure(xlog.Config{
		Level:   "info",
		Service: "odoo-bridge",
		Version: version,
	})

	logger := xlog.WithComponent("daemon")

	// Create a context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xlog.FieldEvent, "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}

	// Re-configure logger with loaded configuration
	xlog.Configure(xlog.Config{
		Level:   cfg.LogLevel,
		Service: "odoo-bridge",
		Version: version,
	})

	logger.Info().
		Str(xlog.FieldEvent, "config.loaded").
		Str(xlog.FieldBaseURL, maskURL(cfg.OdooURL)).
		Str(xlog.FieldDatabase, cfg.OdooDB).
		Msg("loaded configuration")

	// Missing credentials are not fatal: the health endpoint must keep
	// answering, and every connection attempt reports the gap instead.
	if err := cfg.Validate(); err != nil {
		logger.Warn().
			Err(err).
			Str(xlog.FieldEvent, "config.credentials_missing").
			Msg("backend credentials are not configured; action requests will fail")
	}

	srv, err := api.New(cfg)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xlog.FieldEvent, "startup.failed").
			Msg("failed to construct API server")
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str(xlog.FieldEvent, "http.listening").
			Str("addr", cfg.ListenAddr).
			Msg("API server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().
			Str(xlog.FieldEvent, "http.shutdown").
			Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().
				Err(err).
				Str(xlog.FieldEvent, "http.shutdown_failed").
				Msg("graceful shutdown failed")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().
				Err(err).
				Str(xlog.FieldEvent, "http.serve_failed").
				Msg("API server failed")
		}
	}
}
