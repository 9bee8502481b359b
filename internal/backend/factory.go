package backend

import (
	"context"
	"fmt"

	"mintly/internal/log"
	"mintly/internal/storage"
	"mintly/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.FromDefault(log.ComponentBackend)
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	s, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend", log.FieldPath, config.SQLiteDBPath)

	return &BackendResult{
		Store:   s,
		Cleanup: s.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	dir := config.SeedDirectory
	if dir == "" {
		dir = "."
	}

	s := memory.NewFromFiles(dir)

	f.logger.InfoContext(ctx, "Initialized memory backend",
		"seed_directory", dir,
		"categories", len(s.Categories().Get()))

	return &BackendResult{
		Store:   s,
		Cleanup: s.Close,
	}, nil
}
