package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/events"
	"github.com/tmnegociosdigitais/crmdesk/internal/observability"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// promotionReason tags status changes caused by an outbound message.
const promotionReason = "message_sent"

// MessageService appends outbound messages to tickets.
type MessageService struct {
	store         repository.Store
	policy        TransitionPolicy
	clock         clock.Clock
	metrics       *observability.Metrics
	defaultSender string
	events        publisher
}

// MessageDependencies bundles collaborators for the message service.
type MessageDependencies struct {
	Store      repository.Store
	Policy     TransitionPolicy
	Clock      clock.Clock
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	// DefaultSender is the from endpoint when the actor has no name.
	DefaultSender string
}

// SendMessageInput describes an outbound message.
type SendMessageInput struct {
	TicketID string
	Content  string
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	if deps.Policy == nil {
		deps.Policy = AllowAll{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &MessageService{
		store:         deps.Store,
		policy:        deps.Policy,
		clock:         deps.Clock,
		metrics:       deps.Metrics,
		defaultSender: deps.DefaultSender,
		events:        publisher{dispatcher: deps.Dispatcher, clock: deps.Clock, logger: deps.Logger},
	}
}

// SendMessage records a message to the ticket's contact. A WAITING ticket
// is promoted to OPEN in the same transaction as the insert.
func (s *MessageService) SendMessage(ctx context.Context, actor Actor, input SendMessageInput) (*domain.Message, error) {
	if strings.TrimSpace(input.TicketID) == "" {
		return nil, errRequired("ticketId")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, errRequired("message")
	}
	sender := strings.TrimSpace(actor.Name)
	if sender == "" {
		sender = s.defaultSender
	}

	now := s.clock.Now()
	var (
		message  domain.Message
		promoted bool
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		ticket, err := tx.Tickets().GetByID(ctx, input.TicketID)
		if err != nil {
			return notFoundOr(err, "ticket", "ticket_id", input.TicketID)
		}
		contact, err := tx.Contacts().GetByID(ctx, ticket.ContactID)
		if err != nil {
			return err
		}

		timestamp := now
		latest, err := tx.Messages().ListByTicket(ctx, ticket.ID, domain.NewestFirst, 1)
		if err != nil {
			return err
		}
		if len(latest) > 0 && !timestamp.After(latest[0].Timestamp) {
			timestamp = latest[0].Timestamp.Add(time.Microsecond)
		}

		message = domain.Message{
			TicketID:  ticket.ID,
			ContactID: contact.ID,
			From:      sender,
			To:        contact.Phone,
			Content:   input.Content,
			Status:    domain.MessageStatusSent,
			Timestamp: timestamp,
		}
		if err := tx.Messages().Create(ctx, &message); err != nil {
			return err
		}

		if ticket.Status != domain.TicketStatusWaiting || !s.policy.Allow(ticket.Status, domain.TicketStatusOpen) {
			return nil
		}
		ticket.Status = domain.TicketStatusOpen
		ticket.UpdatedAt = now
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		promoted = true
		return tx.History().Create(ctx, &domain.TicketHistory{
			TicketID:    ticket.ID,
			ChangedByID: actor.userID(),
			ChangeType:  domain.ChangeTypeStatus,
			OldValue:    map[string]any{"status": domain.TicketStatusWaiting},
			NewValue:    map[string]any{"status": domain.TicketStatusOpen, "reason": promotionReason},
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.metrics.RecordMessageSent(promoted)
	s.events.publish(ctx, events.Event{
		Type:     events.EventMessageSent,
		TicketID: message.TicketID,
		Actor:    actor.event(),
		Payload: events.MessageSentPayload{
			MessageID:   message.ID,
			From:        message.From,
			To:          message.To,
			BodyPreview: stringPreview(message.Content, 120),
			Promoted:    promoted,
		},
	})
	if promoted {
		s.events.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: message.TicketID,
			Actor:    actor.event(),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: domain.TicketStatusWaiting,
				NewStatus: domain.TicketStatusOpen,
				Reason:    promotionReason,
			},
		})
	}
	return &message, nil
}

// ListMessages returns the ticket thread in ascending timestamp order.
func (s *MessageService) ListMessages(ctx context.Context, ticketID string) ([]domain.Message, error) {
	if _, err := s.store.Tickets().GetByID(ctx, ticketID); err != nil {
		return nil, notFoundOr(err, "ticket", "ticket_id", ticketID)
	}
	messages, err := s.store.Messages().ListByTicket(ctx, ticketID, domain.OldestFirst, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return messages, nil
}
