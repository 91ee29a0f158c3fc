package domain

import "time"

// MessageStatus tracks delivery of a message.
type MessageStatus string

const (
	MessageStatusSent     MessageStatus = "sent"
	MessageStatusReceived MessageStatus = "received"
	MessageStatusRead     MessageStatus = "read"
)

// SortOrder selects chronological direction when listing messages.
type SortOrder int

const (
	OldestFirst SortOrder = iota
	NewestFirst
)

// Message is an append-only record in a ticket thread. From and To are
// free-text routing endpoints.
type Message struct {
	ID        string
	TicketID  string
	ContactID string
	From      string
	To        string
	Content   string
	Status    MessageStatus
	Timestamp time.Time
}
