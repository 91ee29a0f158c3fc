package domain

import "time"

// UpdateType classifies an admin announcement.
type UpdateType string

const (
	UpdateTypeUpdate       UpdateType = "UPDATE"
	UpdateTypeTip          UpdateType = "TIP"
	UpdateTypeAnnouncement UpdateType = "ANNOUNCEMENT"
)

// Valid reports whether t is a known update type.
func (t UpdateType) Valid() bool {
	switch t {
	case UpdateTypeUpdate, UpdateTypeTip, UpdateTypeAnnouncement:
		return true
	}
	return false
}

// Update is an announcement published by an administrator to every agent.
// CreatedByID is nil once the author has been deleted.
type Update struct {
	ID          string
	Title       string
	Description string
	Type        UpdateType
	Icon        string
	CreatedByID *string
	CreatedBy   *UpdateAuthor
	CreatedAt   time.Time
}

// UpdateAuthor is the public part of the user who wrote an update.
type UpdateAuthor struct {
	Name  string
	Email string
}
