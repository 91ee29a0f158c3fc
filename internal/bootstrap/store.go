// Package bootstrap opens the configured persistence backend for the
// binaries under cmd/.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/config"
	"github.com/tmnegociosdigitais/crmdesk/internal/persistence"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository/postgres"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository/sqlite"
	"github.com/tmnegociosdigitais/crmdesk/migrations"
)

// OpenStore connects to the driver named in cfg.Store and applies the
// embedded migrations when cfg.Store.RunMigrations is set.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Store.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.Postgres(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("postgres migrations: %w", err)
			}
		}
		return postgres.New(pg.PoolHandle()), nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Store.SQLitePath, cfg.Store.RunMigrations, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
