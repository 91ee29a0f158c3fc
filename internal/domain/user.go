package domain

import "time"

// UserRole enumerates agent roles.
type UserRole string

const (
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleDeveloper UserRole = "DEVELOPER"
	UserRoleAgent     UserRole = "AGENT"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleDeveloper, UserRoleAgent:
		return true
	}
	return false
}

// User is an agent or administrator belonging to a client.
type User struct {
	ID           string
	ClientID     string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Department   *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
