package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/config"
	"github.com/at-ishikawa/lessondeck/internal/database"
	"github.com/at-ishikawa/lessondeck/internal/progress"
	"github.com/at-ishikawa/lessondeck/internal/spreadsheet"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// newCatalogLoader returns a loader reading the configured spreadsheet and a
// function releasing its HTTP client.
func newCatalogLoader(cfg *config.Config) (*catalog.Loader, func() error, error) {
	if cfg.Spreadsheet.URL == "" {
		return nil, nil, errors.New("spreadsheet.url is not configured. Set it in the config file or LESSONDECK_SPREADSHEET_URL")
	}
	client, err := spreadsheet.NewClient(spreadsheet.Config{
		URL:         cfg.Spreadsheet.URL,
		Format:      spreadsheet.Format(cfg.Spreadsheet.Format),
		Sheet:       cfg.Spreadsheet.Sheet,
		Timeout:     cfg.Spreadsheet.Timeout(),
		MaxAttempts: cfg.Spreadsheet.MaxAttempts,
		RetryDelay:  cfg.Spreadsheet.RetryDelay(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("spreadsheet.NewClient > %w", err)
	}
	loader := catalog.NewLoader(client, catalog.NewBuilder(cfg.Columns), cfg.Catalog.CacheTTL())
	return loader, client.Close, nil
}

// newProgressStore opens the configured progress backend and returns a
// function releasing it.
func newProgressStore(ctx context.Context, cfg *config.Config) (progress.Store, func() error, error) {
	if cfg.Progress.Backend != config.ProgressBackendDatabase {
		store, err := progress.NewStore(cfg.Progress, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("progress.NewStore > %w", err)
		}
		return store, func() error { return nil }, nil
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database.Connect > %w", err)
	}
	store, err := progress.NewStore(cfg.Progress, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("progress.NewStore > %w", err)
	}
	return store, db.Close, nil
}
