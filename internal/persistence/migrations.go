package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RunMigrations executes the SQL files of filesystem against pool in lexicographical order.
// Each file runs in its own transaction.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, filesystem fs.FS, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}
	return applyAll(filesystem, logger, func(name, sql string) error {
		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, sql)
			return err
		})
	})
}

// RunSQLiteMigrations is the database/sql counterpart of RunMigrations.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB, filesystem fs.FS, logger *zap.Logger) error {
	if db == nil {
		return fmt.Errorf("sqlite database not configured")
	}
	return applyAll(filesystem, logger, func(name, stmt string) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}

func applyAll(filesystem fs.FS, logger *zap.Logger, exec func(name, sql string) error) error {
	entries, err := fs.ReadDir(filesystem, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	applied := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := fs.ReadFile(filesystem, entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if len(content) == 0 {
			continue
		}
		logger.Debug("applying migration", zap.String("file", entry.Name()))
		if err := exec(entry.Name(), string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		applied++
	}

	logger.Info("migrations applied", zap.Int("count", applied))
	return nil
}
