// Package sqlite implements the repository contracts on database/sql with
// the modernc.org/sqlite driver. Timestamps are stored as UTC unix
// nanoseconds and string lists as JSON text.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Store is the SQLite-backed repository.Store.
type Store struct {
	sqlDB *sql.DB
	db    dbtx
	inTx  bool
}

var _ repository.Store = (*Store)(nil)

// New wraps db. The caller keeps ownership of schema migrations.
func New(db *sql.DB) *Store {
	return &Store{sqlDB: db, db: db}
}

func (s *Store) Contacts() repository.ContactRepository { return &contactRepository{db: s.db} }
func (s *Store) Queues() repository.QueueRepository { return &queueRepository{db: s.db} }
func (s *Store) Kanban() repository.KanbanRepository { return &kanbanRepository{db: s.db} }
func (s *Store) Tickets() repository.TicketRepository { return &ticketRepository{db: s.db} }
func (s *Store) Messages() repository.MessageRepository { return &messageRepository{db: s.db} }
func (s *Store) History() repository.TicketHistoryRepository { return &ticketHistoryRepository{db: s.db} }
func (s *Store) Plans() repository.PlanRepository { return &planRepository{db: s.db} }
func (s *Store) Users() repository.UserRepository { return &userRepository{db: s.db} }
func (s *Store) Updates() repository.UpdateRepository { return &updateRepository{db: s.db} }

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Store{sqlDB: s.sqlDB, db: tx, inTx: true}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Ping ensures the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var sqliteErr *driver.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %s", repository.ErrConflict, sqliteErr.Error())
	}
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func toNanos(t time.Time) int64 {
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func decodeStrings(raw string) ([]string, error) {
	values := []string{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return values, nil
}

func encodeMap(value map[string]any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	s := string(data)
	return &s, nil
}

func decodeMap(raw *string) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	var value map[string]any
	if err := json.Unmarshal([]byte(*raw), &value); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return value, nil
}
