// Package repository declares the persistence contracts shared by the
// Postgres and SQLite stores.
package repository

import (
	"context"
	"errors"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("repository: conflict")
)

// Store groups the repositories that share one connection or transaction.
type Store interface {
	Contacts() ContactRepository
	Queues() QueueRepository
	Kanban() KanbanRepository
	Tickets() TicketRepository
	Messages() MessageRepository
	History() TicketHistoryRepository
	Plans() PlanRepository
	Users() UserRepository
	Updates() UpdateRepository

	// WithTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithTx on a transactional Store reuses the open transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
	Close()
}

// ContactRepository persists contacts.
type ContactRepository interface {
	// FindOrCreateByPhone returns the contact stored under contact.Phone,
	// inserting contact when the phone is unknown. An existing contact is
	// returned untouched. created reports whether an insert happened.
	FindOrCreateByPhone(ctx context.Context, contact *domain.Contact) (result *domain.Contact, created bool, err error)
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Contact, error)
	// List returns contacts, most recently updated first.
	List(ctx context.Context) ([]domain.Contact, error)
}

// QueueRepository persists routing queues. Queues are listed in creation order.
type QueueRepository interface {
	Create(ctx context.Context, queue *domain.Queue) error
	Update(ctx context.Context, queue *domain.Queue) error
	GetByID(ctx context.Context, id string) (*domain.Queue, error)
	GetByName(ctx context.Context, name string) (*domain.Queue, error)
	// FirstActive returns the earliest created active queue, or ErrNotFound.
	FirstActive(ctx context.Context) (*domain.Queue, error)
	List(ctx context.Context) ([]domain.Queue, error)
}

// KanbanRepository persists per-client board configurations.
type KanbanRepository interface {
	// GetConfig returns the stored config with columns sorted by order,
	// or ErrNotFound when the client never saved one.
	GetConfig(ctx context.Context, clientID string) (*domain.KanbanConfig, error)
	// ReplaceColumns deletes every column of the client's config and inserts
	// columns with fresh ids, creating the config when needed. Tickets placed
	// on the old columns are taken off the board.
	ReplaceColumns(ctx context.Context, clientID string, columns []domain.KanbanColumn) (*domain.KanbanConfig, error)
	GetColumn(ctx context.Context, id string) (*domain.KanbanColumn, error)
	// FirstColumn returns the lowest-order column of the client's stored config.
	FirstColumn(ctx context.Context, clientID string) (*domain.KanbanColumn, error)
}

// TicketFilter narrows ticket listings. Zero values mean "any".
type TicketFilter struct {
	Statuses       []domain.TicketStatus
	QueueID        *string
	KanbanColumnID *string
	AssignedToID   *string
	ContactID      *string
	Limit          int
	Offset         int
}

// TicketRepository persists tickets. List orders by updatedAt descending.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// Delete removes the ticket with its messages and history. The contact stays.
	Delete(ctx context.Context, id string) error
}

// MessageRepository appends and reads ticket messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// ListByTicket returns messages of ticketID in order; limit <= 0 means all.
	ListByTicket(ctx context.Context, ticketID string, order domain.SortOrder, limit int) ([]domain.Message, error)
	// LatestByContact returns the newest message of any ticket of contactID.
	LatestByContact(ctx context.Context, contactID string) (*domain.Message, error)
}

// TicketHistoryRepository stores audit entries.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

// PlanRepository resolves tenants and their plans.
type PlanRepository interface {
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	GetClientPlan(ctx context.Context, clientID string) (*domain.Plan, error)
	UpsertPlan(ctx context.Context, plan *domain.Plan) error
	UpsertClient(ctx context.Context, client *domain.Client) error
}

// UserRepository persists agents.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, clientID string) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

// UpdateRepository persists admin announcements. List returns the newest
// first with the author filled in when it still exists.
type UpdateRepository interface {
	Create(ctx context.Context, update *domain.Update) error
	GetByID(ctx context.Context, id string) (*domain.Update, error)
	List(ctx context.Context) ([]domain.Update, error)
	Delete(ctx context.Context, id string) error
}
