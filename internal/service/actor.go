package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/events"
)

// Actor is the authenticated agent a request runs for. A zero Actor is a
// system action.
type Actor struct {
	UserID   string
	ClientID string
	Name     string
	Role     domain.UserRole
}

// ActorFromUser builds the actor of an authenticated user.
func ActorFromUser(user *domain.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{UserID: user.ID, ClientID: user.ClientID, Name: user.Name, Role: user.Role}
}

func (a Actor) userID() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}

func (a Actor) event() events.Actor {
	return events.Actor{UserID: a.userID(), ClientID: a.ClientID}
}

// publisher stamps and dispatches events after a commit. Dispatch failures
// are logged; the committed write stands.
type publisher struct {
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func (p publisher) now() time.Time {
	if p.clock == nil {
		return clock.Real().Now()
	}
	return p.clock.Now()
}

func stringPreview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
