package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vijay-prabhu/jobmatch/internal/cache"
	"github.com/vijay-prabhu/jobmatch/internal/catalog"
	"github.com/vijay-prabhu/jobmatch/internal/config"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/engine"
	"github.com/vijay-prabhu/jobmatch/internal/kvstore"
	"github.com/vijay-prabhu/jobmatch/internal/logging"
)

// app holds everything a command needs, opened from the config file
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *engine.Engine
	catalog *catalog.Store
	audit   *database.DB
	closers []io.Closer
}

// loadConfig reads the config file, falling back to defaults, applies the
// --log-level override and installs the diagnostic logger on stderr
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logger, err := logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openApp opens the catalog, the audit database and the configured
// key-value store, and builds the engine over them
func openApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// Ensure directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	a.catalog, err = catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.catalog)

	a.audit, err = database.Open(cfg.Database.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.closers = append(a.closers, a.audit)

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.engine, err = engine.New(cfg, engine.Deps{
		Store:   store,
		Catalog: a.catalog,
		Audit:   a.audit,
		Logger:  logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// openStore selects the key-value backend named by store.backend
func (a *app) openStore(ctx context.Context) (kvstore.Store, error) {
	switch a.cfg.Store.Backend {
	case "sqlite", "":
		return a.audit, nil
	case "redis":
		r, err := cache.New(ctx, a.cfg.Redis.URL, a.cfg.Redis.Prefix, a.cfg.Redis.TTL())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, r)
		return r, nil
	case "memory":
		return kvstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", a.cfg.Store.Backend)
	}
}

// Close closes every opened store
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
