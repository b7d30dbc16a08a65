package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drywaters/learncards/internal/config"
	"github.com/drywaters/learncards/internal/extractor"
	"github.com/drywaters/learncards/internal/generator"
	"github.com/drywaters/learncards/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set up logging
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("starting learncards", "port", cfg.Port)

	ctx := context.Background()

	// Initialize provider
	provider, err := generator.NewGeminiProvider(ctx, generator.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GenerationTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini provider: %w", err)
	}
	defer provider.Close()
	slog.Info("Gemini provider enabled", "model", provider.Model())

	ext := extractor.New(extractor.Options{
		Timeout:           cfg.FetchTimeout,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		AllowPrivateHosts: cfg.AllowPrivateHosts,
	})
	if cfg.AllowPrivateHosts {
		slog.Warn("private host guard disabled")
	}

	gen := generator.New(provider)

	// Create server
	srv := server.New(cfg, ext, gen)

	// A request performs one fetch and one generation call
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	return serve(httpServer, shutdownChan)
}

// serve runs httpServer until a shutdown signal arrives or it fails to start
func serve(httpServer *http.Server, shutdown <-chan os.Signal) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
	}
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
