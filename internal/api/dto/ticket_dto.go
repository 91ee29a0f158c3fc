package dto

import (
	"time"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Name     string                `json:"name"`
	Phone    string                `json:"phone"`
	Priority domain.TicketPriority `json:"priority"`
	CRMValue *float64              `json:"crmValue"`
	CRMNotes *string               `json:"crmNotes"`
	Tags     []string              `json:"tags"`
}

// PatchTicketRequest is a merge-patch; absent and null members are ignored.
type PatchTicketRequest struct {
	Status         *domain.TicketStatus   `json:"status"`
	Priority       *domain.TicketPriority `json:"priority"`
	AssignedToID   *string                `json:"assignedToId"`
	QueueID        *string                `json:"queueId"`
	KanbanColumnID *string                `json:"kanbanColumnId"`
	CRMStage       *string                `json:"crmStage"`
	CRMNotes       *string                `json:"crmNotes"`
	CRMValue       *float64               `json:"crmValue"`
	CRMPriority    *int                   `json:"crmPriority"`
}

// MoveTicketRequest places a ticket on a column; null takes it off the board.
type MoveTicketRequest struct {
	KanbanColumnID *string `json:"kanbanColumnId"`
}

// TicketResponse renders a ticket with whatever associations were loaded.
type TicketResponse struct {
	ID             string                `json:"id"`
	ContactID      string                `json:"contactId"`
	QueueID        string                `json:"queueId"`
	KanbanColumnID *string               `json:"kanbanColumnId"`
	AssignedToID   *string               `json:"assignedToId"`
	CreatedByID    *string               `json:"createdById"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	Tags           []string              `json:"tags"`
	CRMStage       *string               `json:"crmStage"`
	CRMNotes       *string               `json:"crmNotes"`
	CRMValue       *float64              `json:"crmValue"`
	CRMPriority    int                   `json:"crmPriority"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`

	Contact       *ContactResponse      `json:"contact,omitempty"`
	Queue         *QueueResponse        `json:"queue,omitempty"`
	KanbanColumn  *KanbanColumnResponse `json:"kanbanColumn,omitempty"`
	AssignedTo    *UserResponse         `json:"assignedTo,omitempty"`
	LatestMessage *MessageResponse      `json:"latestMessage,omitempty"`
	Messages      []MessageResponse     `json:"messages,omitempty"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ID          string                  `json:"id"`
	ChangeType  domain.TicketChangeType `json:"changeType"`
	ChangedByID *string                 `json:"changedById"`
	OldValue    map[string]any          `json:"oldValue"`
	NewValue    map[string]any          `json:"newValue"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// SuccessResponse acknowledges a delete.
type SuccessResponse struct {
	Success bool `json:"success"`
}
