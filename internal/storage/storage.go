package storage

import (
	"context"
	"fmt"

	"covid-warehouse/internal/config"
	"covid-warehouse/internal/model"
)

// Store is the warehouse storage adapter. Writes carry replace semantics:
// WriteTable fully overwrites the prior contents of a target, never appends.
// Each call is synchronous and all-or-nothing from the pipeline's view.
type Store interface {
	// EnsureSchema creates the schema/namespace if it does not exist yet.
	EnsureSchema(ctx context.Context, schema string) error

	// ReadTable returns the full current contents of a target.
	ReadTable(ctx context.Context, target model.Target) (model.Table, error)

	// WriteTable replaces the target's contents with the given table.
	WriteTable(ctx context.Context, target model.Target, table model.Table) error

	Close() error
}

// Open builds the store selected by configuration.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMySQL:
		return NewMySQL(cfg.DB)
	case config.BackendFile:
		return NewFileStore(cfg.File.Dir), nil
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
