// archiver subscribes to the Recall event stream and persists events to
// Postgres in batches.
// Usage: go run ./cmd/archiver --config configs/client.example.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfeldt/recall-stream/internal/archive"
	"github.com/mfeldt/recall-stream/internal/backoff"
	"github.com/mfeldt/recall-stream/internal/config"
	"github.com/mfeldt/recall-stream/internal/database"
	"github.com/mfeldt/recall-stream/internal/hub"
	"github.com/mfeldt/recall-stream/internal/stream"
	"github.com/mfeldt/recall-stream/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/client.example.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		logger.Error("invalid database config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	// Connect database
	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected", "host", cfg.Database.Postgres.Host)

	dial := stream.NewSSEClient
	if cfg.Stream.Transport == "websocket" {
		dial = stream.NewWebSocketClient
	}

	h := hub.New(hub.Config{
		Credential:  cfg.API.Token,
		LogCapacity: cfg.Stream.LogCapacity,
		Manager: hub.ManagerConfig{
			Dial: dial,
			Stream: stream.Config{
				URL:              cfg.Stream.URL,
				HandshakeTimeout: cfg.Stream.HandshakeTimeout,
				StaleTimeout:     cfg.Stream.StaleTimeout,
				BufferSize:       cfg.Stream.BufferSize,
			},
			Backoff: backoff.Policy{
				Base: cfg.Stream.ReconnectBaseDelay,
				Cap:  cfg.Stream.ReconnectMaxDelay,
			},
		},
	}, logger)

	writer := archive.NewWriter(cfg.Archive, h, pool, logger)
	if err := writer.Start(ctx); err != nil {
		logger.Error("failed to start archive writer", "error", err)
		os.Exit(1)
	}

	// Stats printer
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := writer.Stats()
				snap := h.Snapshot()
				logger.Info("stats",
					"status", snap.Status,
					"inserts", stats.Inserts,
					"conflicts", stats.Conflicts,
					"flushes", stats.Flushes,
					"errors", stats.Errors,
					"dropped", stats.Dropped,
				)
			}
		}
	}()

	logger.Info("archiver started - press Ctrl+C to stop")

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down...")
	writer.Stop(shutdownCtx)
	logger.Info("shutdown complete")
}
