package service

import "github.com/tmnegociosdigitais/crmdesk/internal/domain"

// TransitionPolicy decides whether a ticket may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to domain.TicketStatus) bool
}

// AllowAll accepts any status after any other.
type AllowAll struct{}

// Allow implements TransitionPolicy.
func (AllowAll) Allow(_, _ domain.TicketStatus) bool { return true }

// Strict follows the ticket lifecycle: waiting tickets open, open tickets
// wait on the customer or get resolved, and resolved tickets may reopen.
type Strict struct{}

var strictTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusWaiting:  {domain.TicketStatusOpen, domain.TicketStatusResolved},
	domain.TicketStatusOpen:     {domain.TicketStatusPending, domain.TicketStatusResolved},
	domain.TicketStatusPending:  {domain.TicketStatusOpen, domain.TicketStatusResolved},
	domain.TicketStatusResolved: {domain.TicketStatusOpen},
}

// Allow implements TransitionPolicy.
func (Strict) Allow(from, to domain.TicketStatus) bool {
	if from == to {
		return true
	}
	for _, candidate := range strictTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// PolicyFor returns Strict when strict is set and AllowAll otherwise.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return Strict{}
	}
	return AllowAll{}
}
