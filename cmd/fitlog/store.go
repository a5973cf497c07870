package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meltforce/fitlog/internal/auth"
	"github.com/meltforce/fitlog/internal/config"
	"github.com/meltforce/fitlog/internal/storage"
	"github.com/meltforce/fitlog/internal/workout"
)

// store is what the services need from either backend.
type store interface {
	auth.Store
	workout.Store
	Close() error
}

// openStore connects the configured backend. Postgres migrations are applied
// first; the SQLite schema is created on open.
func openStore(ctx context.Context, cfg config.DatabaseConfig, migrationsPath string, log *slog.Logger) (store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn := cfg.DSN()
		if err := storage.RunMigrations(dsn, migrationsPath); err != nil {
			return nil, err
		}
		log.Info("migrations applied")

		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", "driver", cfg.Driver, "host", cfg.Host, "name", cfg.Name)
		return db, nil
	case config.DriverSQLite:
		db, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		log.Info("database opened", "driver", cfg.Driver, "path", cfg.Path)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
