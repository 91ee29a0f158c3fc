package dto

import (
	"time"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

// CreateUpdateRequest payload for POST /admin/updates.
type CreateUpdateRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Type        domain.UpdateType `json:"type"`
	Icon        string            `json:"icon"`
}

// UpdateAuthorResponse names the author of an announcement.
type UpdateAuthorResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateResponse is an admin announcement.
type UpdateResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        domain.UpdateType     `json:"type"`
	Icon        string                `json:"icon"`
	CreatedByID *string               `json:"createdById"`
	CreatedBy   *UpdateAuthorResponse `json:"createdBy"`
	CreatedAt   time.Time             `json:"createdAt"`
}
