// streamtail connects to the Recall event stream and prints events to console.
// Usage: go run ./cmd/streamtail --config configs/client.example.yaml
//
// The stream token can come from the config file or the RECALL_TOKEN
// environment variable via ${RECALL_TOKEN} substitution.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mfeldt/recall-stream/internal/backoff"
	"github.com/mfeldt/recall-stream/internal/config"
	"github.com/mfeldt/recall-stream/internal/hub"
	"github.com/mfeldt/recall-stream/internal/model"
	"github.com/mfeldt/recall-stream/internal/router"
	"github.com/mfeldt/recall-stream/internal/stream"
	"github.com/mfeldt/recall-stream/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/client.example.yaml", "path to config file")
	types := flag.String("types", "", "comma-separated event types to print (default all)")
	verbose := flag.Bool("verbose", false, "pretty-print event payloads")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Load config
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	h := newHub(cfg, logger)

	wanted := model.EventTypes
	if *types != "" {
		wanted = strings.Split(*types, ",")
	}

	handlers := make(map[string]router.Listener, len(wanted))
	for _, eventType := range wanted {
		et := strings.TrimSpace(eventType)
		handlers[et] = func(payload json.RawMessage) {
			printEvent(et, payload, *verbose)
		}
	}

	sub := h.Subscribe(hub.Options{
		Handlers: handlers,
		OnOpen: func() {
			logger.Info("stream open")
		},
		OnError: func(err error) {
			logger.Warn("stream error", "error", err)
		},
		OnReconnecting: func(attempt int, delay time.Duration) {
			logger.Info("reconnecting", "attempt", attempt, "delay", delay)
		},
	})

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := h.RouterStats()
				snap := h.Snapshot()
				logger.Info("stats",
					"status", snap.Status,
					"reconnect_attempt", snap.ReconnectAttempt,
					"dispatched", stats.Dispatched,
					"dropped", stats.Dropped,
					"decode_fails", stats.DecodeFails,
					"log_lines", len(snap.Log),
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop",
		"transport", cfg.Stream.Transport,
		"types", len(handlers),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")
	sub.Unsubscribe()
	logger.Info("shutdown complete")
}

// newHub builds an event hub from file config.
func newHub(cfg *config.Config, logger *slog.Logger) *hub.Hub {
	dial := stream.NewSSEClient
	if cfg.Stream.Transport == "websocket" {
		dial = stream.NewWebSocketClient
	}

	return hub.New(hub.Config{
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
			Backoff: backoffPolicy(cfg),
		},
	}, logger)
}

func backoffPolicy(cfg *config.Config) backoff.Policy {
	return backoff.Policy{
		Base: cfg.Stream.ReconnectBaseDelay,
		Cap:  cfg.Stream.ReconnectMaxDelay,
	}
}

func printEvent(eventType string, payload json.RawMessage, verbose bool) {
	if verbose {
		data, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Printf("[%s] %s\n", strings.ToUpper(eventType), data)
		return
	}
	fmt.Printf("[%s] %s\n", strings.ToUpper(eventType), payload)
}
