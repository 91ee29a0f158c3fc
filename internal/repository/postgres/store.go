// Package postgres implements the repository contracts on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
)

const uniqueViolation = "23505"

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the pgx-backed repository.Store.
type Store struct {
	pool *pgxpool.Pool
	db   dbtx
	inTx bool
}

var _ repository.Store = (*Store)(nil)

// New wraps pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
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
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, db: tx, inTx: true})
	})
}

// Ping ensures the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

func requireRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
