package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusWaiting  TicketStatus = "WAITING"
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusPending  TicketStatus = "PENDING"
	TicketStatusResolved TicketStatus = "RESOLVED"
)

// TicketStatuses lists every status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusWaiting,
	TicketStatusOpen,
	TicketStatusPending,
	TicketStatusResolved,
}

// Valid reports whether s belongs to the closed status set.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Valid reports whether p belongs to the closed priority set.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Ticket binds a contact to a queue, an optional board column and CRM fields.
// ContactID never changes after creation.
type Ticket struct {
	ID             string
	ContactID      string
	QueueID        string
	KanbanColumnID *string
	AssignedToID   *string
	CreatedByID    *string
	Status         TicketStatus
	Priority       TicketPriority
	Tags           []string
	CRMStage       *string
	CRMNotes       *string
	CRMValue       *float64
	CRMPriority    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OnBoard reports whether the ticket is placed in a Kanban column.
func (t *Ticket) OnBoard() bool {
	return t.KanbanColumnID != nil && *t.KanbanColumnID != ""
}

// TicketView is a ticket with the associations rendered by list and detail endpoints.
type TicketView struct {
	Ticket
	Contact       *Contact
	Queue         *Queue
	KanbanColumn  *KanbanColumn
	AssignedTo    *User
	LatestMessage *Message
	Messages      []Message
}
