package main

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/config"
	"github.com/at-ishikawa/certprep/internal/state"
	"github.com/at-ishikawa/certprep/internal/storage"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// openReducer loads the catalog, opens the state database and reads the
// persisted state. The caller must Close the returned store.
func openReducer(ctx context.Context, cfg *config.Config) (*catalog.Catalog, *storage.SQLiteStore, *state.Reducer, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("catalog.Load() > %w", err)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("storage.Open(%s) > %w", cfg.Storage.Path, err)
	}

	reducer := state.NewReducer(store, cat)
	if err := reducer.Load(ctx); err != nil {
		_ = store.Close()
		return nil, nil, nil, fmt.Errorf("reducer.Load() > %w", err)
	}
	return cat, store, reducer, nil
}
