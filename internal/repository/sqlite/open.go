package sqlite

import (
	"context"

	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/persistence"
	"github.com/tmnegociosdigitais/crmdesk/migrations"
)

// Open opens the database at path and, when migrate is set, applies the
// embedded SQLite schema. Use persistence.MemoryDSN for a throwaway store.
func Open(ctx context.Context, path string, migrate bool, logger *zap.Logger) (*Store, error) {
	handle, err := persistence.NewSQLite(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := persistence.RunSQLiteMigrations(ctx, handle.DB, migrations.SQLite(), logger); err != nil {
			handle.Close()
			return nil, err
		}
	}
	return New(handle.DB), nil
}
