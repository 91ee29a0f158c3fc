package domain

import "time"

// Contact is a phone-addressable party. Phone is the dedup key.
type Contact struct {
	ID        string
	Phone     string
	Name      string
	Tags      []string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactView is a contact with its most recent message.
type ContactView struct {
	Contact
	LatestMessage *Message
}
