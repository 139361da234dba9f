package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/analysis"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/api"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/config"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/hermes"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/lexicon"
	"github.com/rlagusgh2199/Real-MBTI-Project/internal/processor"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when NATS_URL is set, the NATS request handler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), config.Load())
	},
}

func runServe(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("realmbti starting", "port", cfg.Port, "version", version)

	lx, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	narr, info := buildNarrator(cfg, true)

	// NATS/Hermes (optional)
	var (
		events       analysis.Publisher
		hermesClient *hermes.Client
	)
	if cfg.NatsURL != "" {
		hermesClient, err = hermes.NewClient(ctx, hermes.Options{
			URL:   cfg.NatsURL,
			Token: cfg.NatsToken,
			Queue: cfg.NatsQueue,
		}, slog.Default())
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer hermesClient.Close()
		events = hermesClient
		info.NATS = hermesClient.Connected
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, running without analysis events")
	}

	analyzer := analysis.New(lx, narr, events, cfg.NarratorTimeout, slog.Default())

	if hermesClient != nil {
		proc := processor.New(analyzer, hermesClient, slog.Default())
		if err := hermesClient.Subscribe(hermes.SubjectAnalysisRequested, proc.HandleAnalysisRequested); err != nil {
			return fmt.Errorf("subscribe to analysis requests: %w", err)
		}

		if err := hermesClient.Publish(hermes.SubjectServiceRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"narrator":  info.Narrator,
			"version":   version,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, analyzer, info, cfg.MaxUploadBytes(), slog.Default())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("realmbti ready", "port", cfg.Port, "narrator", info.Narrator)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	slog.Info("realmbti stopped")
	return nil
}
