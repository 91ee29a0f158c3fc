package dto

import (
	"time"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

// SendMessageRequest payload.
type SendMessageRequest struct {
	TicketID string `json:"ticketId"`
	Message  string `json:"message"`
}

// MessageResponse renders a thread message.
type MessageResponse struct {
	ID        string               `json:"id"`
	TicketID  string               `json:"ticketId"`
	ContactID string               `json:"contactId"`
	From      string               `json:"from"`
	To        string               `json:"to"`
	Content   string               `json:"content"`
	Status    domain.MessageStatus `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
}
