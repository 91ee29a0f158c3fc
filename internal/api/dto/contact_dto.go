package dto

import "time"

// CreateContactRequest payload.
type CreateContactRequest struct {
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Tags  []string `json:"tags"`
	Notes string   `json:"notes"`
}

// ContactResponse renders a contact.
type ContactResponse struct {
	ID            string           `json:"id"`
	Phone         string           `json:"phone"`
	Name          string           `json:"name"`
	Tags          []string         `json:"tags"`
	Notes         string           `json:"notes"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	LatestMessage *MessageResponse `json:"latestMessage,omitempty"`
}

// CreateQueueRequest payload. Queues start active unless isActive is false.
type CreateQueueRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive"`
}

// UpdateQueueRequest payload.
type UpdateQueueRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

// QueueResponse renders a queue.
type QueueResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
