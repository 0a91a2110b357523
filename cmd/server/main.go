// Command server runs the quill API server.
//
// Configuration is layered: built-in defaults, then an optional YAML
// config file (-config flag, QUILL_CONFIG, ./config.yaml, or
// /etc/quill/config.yaml), then QUILL_* environment overrides. Secrets
// may be supplied via *_file references. See pkg/config for the full
// set of knobs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/quillhq/quill/pkg/agent/crawl"
	"github.com/quillhq/quill/pkg/agent/search"
	"github.com/quillhq/quill/pkg/auth"
	"github.com/quillhq/quill/pkg/config"
	"github.com/quillhq/quill/pkg/llm"
	"github.com/quillhq/quill/pkg/storage"
	"github.com/quillhq/quill/pkg/storage/memory"
	"github.com/quillhq/quill/pkg/storage/postgres"
	"github.com/quillhq/quill/pkg/storage/sqlite"
	"github.com/quillhq/quill/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	store, err := buildStore(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("initializing token signer: %w", err)
	}

	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	if !llmClient.Configured() {
		logger.Warn("LLM API key not set, /api/chat will be unavailable")
	}

	searcher := search.NewMulti(cfg.Search.SerperAPIKey, cfg.Search.Timeout)
	logger.Info("search providers configured", "providers", searcher.Providers())

	crawler := crawl.New(0)

	srv := transport.NewServer(store, tokens, llmClient, searcher, crawler,
		transport.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transport.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transport.WithMetrics(cfg.Observability.Metrics.Enabled, cfg.Observability.Metrics.Path),
		transport.WithLogger(logger),
	)

	return srv.ListenAndServe()
}

// buildStore opens the configured backend. Postgres falls back to
// SQLite when the database is unreachable, and SQLite falls back to
// the in-memory store, so the server still comes up in a degraded
// mode instead of crash-looping.
func buildStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		store, err := postgres.New(openCtx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err == nil {
			logger.Info("storage ready", "type", "postgres")
			return store, nil
		}
		logger.Warn("postgres unavailable, falling back to sqlite",
			"error", err, "path", cfg.Storage.SQLite.Path)
		fallthrough

	case "sqlite":
		store, err := sqlite.New(cfg.Storage.SQLite.Path)
		if err == nil {
			logger.Info("storage ready", "type", "sqlite", "path", cfg.Storage.SQLite.Path)
			return store, nil
		}
		logger.Warn("sqlite unavailable, falling back to in-memory storage", "error", err)
		fallthrough

	case "memory":
		logger.Info("storage ready", "type", "memory")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}
