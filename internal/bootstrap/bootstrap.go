// Package bootstrap builds the translation store and overlay described by a
// loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"translatable/internal/application"
	"translatable/internal/config"
	"translatable/internal/domain"
	"translatable/internal/infrastructure/database"
	"translatable/internal/infrastructure/locale"
	"translatable/internal/infrastructure/memory"
	"translatable/internal/infrastructure/sqlite"
	"translatable/internal/ports/output"
)

// Backend is an opened translation store with its schema version.
type Backend struct {
	Driver  string
	Store   output.TranslationStore
	Version uint
	closer  func() error
}

// Close releases the connection held by the store. Safe to call on a nil Backend.
func (b *Backend) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	return b.closer()
}

// Open migrates and opens the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		version, err := database.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("migrate postgres: %w: %w", domain.ErrStoreUnavailable, err)
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect: %w: %w", domain.ErrStoreUnavailable, err)
		}
		return &Backend{
			Driver:  cfg.StoreDriver,
			Store:   database.NewTranslationRepository(database.New(pool)),
			Version: version,
			closer: func() error {
				pool.Close()
				return nil
			},
		}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w: %w", domain.ErrStoreUnavailable, err)
		}
		return &Backend{
			Driver:  cfg.StoreDriver,
			Store:   store,
			Version: store.SchemaVersion(),
			closer:  store.Close,
		}, nil
	case config.DriverMemory:
		return &Backend{Driver: cfg.StoreDriver, Store: memory.NewStore()}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewOverlay builds an overlay over store whose fallback locale is
// cfg.FallbackLocale. Requests without a pinned locale resolve in the
// fallback locale as well.
func NewOverlay(cfg *config.Config, store output.TranslationStore, schema *application.Schema, logger *slog.Logger) *application.Overlay {
	locales := locale.NewProvider(cfg.FallbackLocale, cfg.FallbackLocale)
	return application.NewOverlay(store, locales, schema, application.WithLogger(logger))
}
