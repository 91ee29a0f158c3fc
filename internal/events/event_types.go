package events

import (
	"time"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketStatusChanged  EventType = "ticket_status_changed"
	EventTicketMoved          EventType = "ticket_moved"
	EventTicketAssigned       EventType = "ticket_assigned"
	EventTicketUpdated        EventType = "ticket_updated"
	EventTicketDeleted        EventType = "ticket_deleted"
	EventMessageSent          EventType = "message_sent"
	EventKanbanConfigReplaced EventType = "kanban_config_replaced"
)

// AllEventTypes lists every type a subscriber may register for.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketMoved,
	EventTicketAssigned,
	EventTicketUpdated,
	EventTicketDeleted,
	EventMessageSent,
	EventKanbanConfigReplaced,
}

// Actor identifies who caused an event. Both fields are empty for system actions.
type Actor struct {
	UserID   *string `json:"user_id,omitempty"`
	ClientID string  `json:"client_id,omitempty"`
}

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ContactID      string                `json:"contact_id"`
	NewContact     bool                  `json:"new_contact"`
	QueueID        string                `json:"queue_id"`
	KanbanColumnID *string               `json:"kanban_column_id,omitempty"`
	Priority       domain.TicketPriority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Reason    string              `json:"reason,omitempty"`
}

// TicketMovedPayload payload. A nil column means the ticket left the board.
type TicketMovedPayload struct {
	FromColumnID *string `json:"from_column_id,omitempty"`
	ToColumnID   *string `json:"to_column_id,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	PreviousAssigneeID *string `json:"previous_assignee_id,omitempty"`
	AssigneeID         *string `json:"assignee_id,omitempty"`
}

// TicketUpdatedPayload lists the remaining field groups a patch changed.
type TicketUpdatedPayload struct {
	Changes []domain.TicketChangeType `json:"changes"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID   string `json:"message_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	BodyPreview string `json:"body_preview"`
	Promoted    bool   `json:"promoted"`
}

// KanbanConfigReplacedPayload payload.
type KanbanConfigReplacedPayload struct {
	ConfigID string `json:"config_id"`
	Columns  int    `json:"columns"`
}
