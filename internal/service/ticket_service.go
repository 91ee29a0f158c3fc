package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/events"
	"github.com/tmnegociosdigitais/crmdesk/internal/observability"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	store   repository.Store
	policy  TransitionPolicy
	clock   clock.Clock
	metrics *observability.Metrics
	logger  *zap.Logger
	events  publisher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      repository.Store
	Policy     TransitionPolicy
	Clock      clock.Clock
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Name     string
	Phone    string
	Priority domain.TicketPriority
	CRMValue *float64
	CRMNotes *string
	Tags     []string
}

// TicketListFilter narrows ticket listings.
type TicketListFilter struct {
	Statuses       []domain.TicketStatus
	QueueID        *string
	KanbanColumnID *string
	AssignedToID   *string
	ContactID      *string
	Limit          int
	Offset         int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	if deps.Policy == nil {
		deps.Policy = AllowAll{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &TicketService{
		store:   deps.Store,
		policy:  deps.Policy,
		clock:   deps.Clock,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		events:  publisher{dispatcher: deps.Dispatcher, clock: deps.Clock, logger: deps.Logger},
	}
}

// CreateTicket resolves the contact by phone, routes the ticket to the first
// active queue and places it in the first column of the actor's board. All
// writes share one transaction, so a missing queue leaves no contact behind.
func (s *TicketService) CreateTicket(ctx context.Context, actor Actor, input TicketCreateInput) (*domain.TicketView, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, errContactPhoneMissing()
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityLow
	}
	if !priority.Valid() {
		return nil, errInvalidField("priority", priority)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = phone
	}

	now := s.clock.Now()
	view := &domain.TicketView{}
	var newContact bool

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		contact, created, err := tx.Contacts().FindOrCreateByPhone(ctx, &domain.Contact{
			Phone:     phone,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		newContact = created

		queue, err := tx.Queues().FirstActive(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errNoQueueAvailable()
			}
			return err
		}

		var column *domain.KanbanColumn
		if actor.ClientID != "" {
			column, err = tx.Kanban().FirstColumn(ctx, actor.ClientID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}

		ticket := domain.Ticket{
			ContactID:   contact.ID,
			QueueID:     queue.ID,
			CreatedByID: actor.userID(),
			Status:      domain.TicketStatusWaiting,
			Priority:    priority,
			Tags:        input.Tags,
			CRMNotes:    input.CRMNotes,
			CRMValue:    input.CRMValue,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if column != nil {
			id := column.ID
			ticket.KanbanColumnID = &id
		}
		if err := tx.Tickets().Create(ctx, &ticket); err != nil {
			return err
		}

		view.Ticket = ticket
		view.Contact = contact
		view.Queue = queue
		view.KanbanColumn = column
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.metrics.RecordTicketCreated(newContact)
	s.events.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: view.ID,
		Actor:    actor.event(),
		Payload: events.TicketCreatedPayload{
			ContactID:      view.ContactID,
			NewContact:     newContact,
			QueueID:        view.QueueID,
			KanbanColumnID: view.KanbanColumnID,
			Priority:       view.Priority,
		},
	})
	return view, nil
}

// ListTickets returns tickets, most recently updated first, each with its
// contact, column and newest message.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.TicketView, error) {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, errInvalidField("status", status)
		}
	}
	tickets, err := s.store.Tickets().List(ctx, repository.TicketFilter{
		Statuses:       filter.Statuses,
		QueueID:        filter.QueueID,
		KanbanColumnID: filter.KanbanColumnID,
		AssignedToID:   filter.AssignedToID,
		ContactID:      filter.ContactID,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	contacts := map[string]*domain.Contact{}
	columns := map[string]*domain.KanbanColumn{}
	views := make([]domain.TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		view := domain.TicketView{Ticket: ticket}

		contact, ok := contacts[ticket.ContactID]
		if !ok {
			contact, err = s.store.Contacts().GetByID(ctx, ticket.ContactID)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			contacts[ticket.ContactID] = contact
		}
		view.Contact = contact

		if ticket.OnBoard() {
			column, ok := columns[*ticket.KanbanColumnID]
			if !ok {
				column, err = s.store.Kanban().GetColumn(ctx, *ticket.KanbanColumnID)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return nil, apperrors.MapError(err)
				}
				columns[*ticket.KanbanColumnID] = column
			}
			view.KanbanColumn = column
		}

		latest, err := s.store.Messages().ListByTicket(ctx, ticket.ID, domain.NewestFirst, 1)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if len(latest) > 0 {
			view.LatestMessage = &latest[0]
		}
		views = append(views, view)
	}
	return views, nil
}

// GetTicket returns a ticket with its associations and messages, newest first.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.TicketView, error) {
	ticket, err := s.store.Tickets().GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", "ticket_id", ticketID)
	}
	view, err := s.loadView(ctx, s.store, ticket)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	messages, err := s.store.Messages().ListByTicket(ctx, ticket.ID, domain.NewestFirst, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	view.Messages = messages
	if len(messages) > 0 {
		view.LatestMessage = &messages[0]
	}
	return view, nil
}

// PatchTicket merges patch into the ticket. Absent fields stay as stored;
// the last successful write wins. A patch without any field is rejected.
func (s *TicketService) PatchTicket(ctx context.Context, actor Actor, ticketID string, patch domain.TicketPatch) (*domain.TicketView, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var (
		before  domain.Ticket
		changes []domain.FieldChange
		view    *domain.TicketView
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return notFoundOr(err, "ticket", "ticket_id", ticketID)
		}
		if err := s.checkReferences(ctx, tx, actor, patch); err != nil {
			return err
		}
		if patch.Status != nil && !s.policy.Allow(ticket.Status, *patch.Status) {
			return errInvalidTransition(ticket.Status, *patch.Status)
		}

		before = *ticket
		changes = ticket.ApplyPatch(patch, now)
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		for _, change := range changes {
			entry := &domain.TicketHistory{
				TicketID:    ticket.ID,
				ChangedByID: actor.userID(),
				ChangeType:  change.Type,
				OldValue:    change.OldValue,
				NewValue:    change.NewValue,
				CreatedAt:   now,
			}
			if err := tx.History().Create(ctx, entry); err != nil {
				return err
			}
		}

		view, err = s.loadView(ctx, tx, ticket)
		return err
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishChanges(ctx, actor, before, view.Ticket, changes)
	return view, nil
}

// MoveTicket places the ticket in columnID, or takes it off the board when
// columnID is empty.
func (s *TicketService) MoveTicket(ctx context.Context, actor Actor, ticketID, columnID string) (*domain.TicketView, error) {
	return s.PatchTicket(ctx, actor, ticketID, domain.TicketPatch{KanbanColumnID: &columnID})
}

// DeleteTicket removes a ticket with its messages and history. The contact is kept.
func (s *TicketService) DeleteTicket(ctx context.Context, actor Actor, ticketID string) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Tickets().GetByID(ctx, ticketID); err != nil {
			return notFoundOr(err, "ticket", "ticket_id", ticketID)
		}
		return tx.Tickets().Delete(ctx, ticketID)
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	s.events.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Actor:    actor.event(),
	})
	return nil
}

// ListHistory returns the audit trail of a ticket, oldest first.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if _, err := s.store.Tickets().GetByID(ctx, ticketID); err != nil {
		return nil, notFoundOr(err, "ticket", "ticket_id", ticketID)
	}
	entries, err := s.store.History().ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func validatePatch(patch domain.TicketPatch) error {
	if patch.IsEmpty() {
		return apperrors.NewValidationError("no fields to update", nil)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return errInvalidField("status", *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return errInvalidField("priority", *patch.Priority)
	}
	if patch.QueueID != nil && strings.TrimSpace(*patch.QueueID) == "" {
		return errInvalidField("queueId", *patch.QueueID)
	}
	return nil
}

// checkReferences resolves every id the patch points at. Columns must belong
// to the actor's board and assignees to the actor's client.
func (s *TicketService) checkReferences(ctx context.Context, tx repository.Store, actor Actor, patch domain.TicketPatch) error {
	if patch.QueueID != nil {
		if _, err := tx.Queues().GetByID(ctx, *patch.QueueID); err != nil {
			return notFoundOr(err, "queue", "queue_id", *patch.QueueID)
		}
	}
	if patch.KanbanColumnID != nil && *patch.KanbanColumnID != "" {
		columnID := *patch.KanbanColumnID
		column, err := tx.Kanban().GetColumn(ctx, columnID)
		if err != nil {
			return notFoundOr(err, "kanban column", "kanban_column_id", columnID)
		}
		if actor.ClientID != "" {
			config, err := tx.Kanban().GetConfig(ctx, actor.ClientID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if config == nil || config.ID != column.ConfigID {
				return apperrors.NewNotFound("kanban column", map[string]any{"kanban_column_id": columnID})
			}
		}
	}
	if patch.AssignedToID != nil && *patch.AssignedToID != "" {
		userID := *patch.AssignedToID
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user", "user_id", userID)
		}
		if actor.ClientID != "" && user.ClientID != actor.ClientID {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
	}
	return nil
}

func (s *TicketService) loadView(ctx context.Context, store repository.Store, ticket *domain.Ticket) (*domain.TicketView, error) {
	view := &domain.TicketView{Ticket: *ticket}

	contact, err := store.Contacts().GetByID(ctx, ticket.ContactID)
	if err != nil {
		return nil, err
	}
	view.Contact = contact

	queue, err := store.Queues().GetByID(ctx, ticket.QueueID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	view.Queue = queue

	if ticket.OnBoard() {
		column, err := store.Kanban().GetColumn(ctx, *ticket.KanbanColumnID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		view.KanbanColumn = column
	}
	if ticket.AssignedToID != nil {
		user, err := store.Users().GetByID(ctx, *ticket.AssignedToID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		view.AssignedTo = user
	}
	return view, nil
}

func (s *TicketService) publishChanges(ctx context.Context, actor Actor, before, after domain.Ticket, changes []domain.FieldChange) {
	var other []domain.TicketChangeType
	for _, change := range changes {
		switch change.Type {
		case domain.ChangeTypeStatus:
			s.events.publish(ctx, events.Event{
				Type:     events.EventTicketStatusChanged,
				TicketID: after.ID,
				Actor:    actor.event(),
				Payload:  events.TicketStatusChangedPayload{OldStatus: before.Status, NewStatus: after.Status},
			})
		case domain.ChangeTypeColumn:
			s.events.publish(ctx, events.Event{
				Type:     events.EventTicketMoved,
				TicketID: after.ID,
				Actor:    actor.event(),
				Payload:  events.TicketMovedPayload{FromColumnID: before.KanbanColumnID, ToColumnID: after.KanbanColumnID},
			})
		case domain.ChangeTypeAssignee:
			s.events.publish(ctx, events.Event{
				Type:     events.EventTicketAssigned,
				TicketID: after.ID,
				Actor:    actor.event(),
				Payload:  events.TicketAssignedPayload{PreviousAssigneeID: before.AssignedToID, AssigneeID: after.AssignedToID},
			})
		default:
			other = append(other, change.Type)
		}
	}
	if len(other) > 0 {
		s.events.publish(ctx, events.Event{
			Type:     events.EventTicketUpdated,
			TicketID: after.ID,
			Actor:    actor.event(),
			Payload:  events.TicketUpdatedPayload{Changes: other},
		})
	}
}
