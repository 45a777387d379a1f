// Package main provides a mock AG-UI server that replays a scripted
// agent run over Server-Sent Events (SSE).
//
// It exists to exercise agentview clients end to end without a real
// agent backend: the stream endpoint emits a full run (steps, streamed
// text, tool calls, state sync, custom events) and the action endpoints
// log what the client posts back.
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	MOCK_PORT      - Server port (default: 8080)
//	MOCK_INTERVAL  - Delay between events (default: 200ms)
//	MOCK_LOOP      - Replay the scenario forever (default: false)
//
// Usage:
//
//	go run ./cmd/mockserver
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := loadConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	handler := newStreamHandler(cfg)

	mux := http.NewServeMux()
	mux.Handle("/api/ag-ui/stream", corsMiddleware(handler))
	mux.Handle("/api/ag-ui/tool-result", corsMiddleware(http.HandlerFunc(toolResultHandler)))
	mux.Handle("/api/ag-ui/abort", corsMiddleware(http.HandlerFunc(abortHandler)))
	mux.Handle("/api/ag-ui/message", corsMiddleware(http.HandlerFunc(messageHandler)))
	mux.HandleFunc("/health", healthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("mock AG-UI server starting",
		"addr", ":"+cfg.Port,
		"stream", "GET http://localhost:"+cfg.Port+"/api/ag-ui/stream",
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

type config struct {
	Port     string
	Interval time.Duration
	Loop     bool
}

func loadConfig() config {
	cfg := config{
		Port:     "8080",
		Interval: 200 * time.Millisecond,
	}
	if port := os.Getenv("MOCK_PORT"); port != "" {
		cfg.Port = port
	}
	if interval := os.Getenv("MOCK_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Interval = d
		} else {
			slog.Warn("invalid MOCK_INTERVAL, using default", "value", interval)
		}
	}
	cfg.Loop = os.Getenv("MOCK_LOOP") == "true"
	return cfg
}
