package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// SQLite wraps a database/sql handle backed by modernc.org/sqlite.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens the database at path with foreign keys enforced.
// An in-memory database is pinned to a single connection so every
// query sees the same schema.
func NewSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is empty")
	}

	memory := path == MemoryDSN
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	pragmas := "_pragma=busy_timeout=10000&_pragma=foreign_keys=ON"
	if !memory {
		pragmas += "&_pragma=journal_mode=WAL"
	}
	dsn = dsn + sep + pragmas

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// :memory: databases live per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	logger.Info("opened sqlite database", zap.String("path", path))
	return &SQLite{DB: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

// Ping verifies the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("sqlite database not configured")
	}
	return s.DB.PingContext(ctx)
}
