package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/salesflow/internal/catalog"
	"github.com/Veraticus/salesflow/internal/config"
	"github.com/Veraticus/salesflow/internal/fileio"
	"github.com/Veraticus/salesflow/internal/pipeline"
	"github.com/Veraticus/salesflow/internal/storage"
	"github.com/spf13/viper"
)

// loadConfig validates the merged flag, env, file and default settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// inputPath picks the positional file argument over input.path.
func inputPath(cfg *config.Config, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Input.Path
}

func openStore(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func newCatalogClient(cfg *config.Config, logger *slog.Logger) *catalog.Client {
	return catalog.NewClient(catalog.Config{
		URL:           cfg.Catalog.URL,
		Timeout:       cfg.Catalog.Timeout,
		RetryAttempts: cfg.Catalog.RetryAttempts,
	}, logger)
}

// newResolver falls back to the cached catalog only when the remote
// catalog is disabled.
func newResolver(cfg *config.Config, store *storage.SQLiteStorage, logger *slog.Logger) *catalog.Resolver {
	if !cfg.Catalog.Enabled {
		return catalog.NewResolver(nil, store, logger)
	}
	return catalog.NewResolver(newCatalogClient(cfg, logger), store, logger)
}

func pipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	enc, err := fileio.LookupEncoding(cfg.Input.EncodingFallback)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("input.encoding_fallback: %w", err)
	}
	return pipeline.Options{
		Encoding:     enc,
		Filter:       cfg.ValidationFilter(),
		TopN:         cfg.Report.TopN,
		LowThreshold: cfg.Report.LowThreshold,
	}, nil
}
