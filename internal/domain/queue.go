package domain

import "time"

// Queue is a named routing bucket for tickets.
type Queue struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
