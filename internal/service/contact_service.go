package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// ContactService manages contacts outside the ticket flow.
type ContactService struct {
	store repository.Store
	clock clock.Clock
}

// ContactCreateInput describes a new contact.
type ContactCreateInput struct {
	Name  string
	Phone string
	Tags  []string
	Notes string
}

// NewContactService constructs the service.
func NewContactService(store repository.Store, clk clock.Clock) *ContactService {
	if clk == nil {
		clk = clock.Real()
	}
	return &ContactService{store: store, clock: clk}
}

// ListContacts returns contacts, most recently updated first, with their newest message.
func (s *ContactService) ListContacts(ctx context.Context) ([]domain.ContactView, error) {
	contacts, err := s.store.Contacts().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	views := make([]domain.ContactView, 0, len(contacts))
	for _, contact := range contacts {
		view := domain.ContactView{Contact: contact}
		latest, err := s.store.Messages().LatestByContact(ctx, contact.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.MapError(err)
		}
		view.LatestMessage = latest
		views = append(views, view)
	}
	return views, nil
}

// CreateContact stores a contact unless its phone is already known, in which
// case the stored contact is returned unchanged and created is false.
func (s *ContactService) CreateContact(ctx context.Context, input ContactCreateInput) (*domain.Contact, bool, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, false, errContactPhoneMissing()
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = phone
	}
	now := s.clock.Now()
	contact, created, err := s.store.Contacts().FindOrCreateByPhone(ctx, &domain.Contact{
		Phone:     phone,
		Name:      name,
		Tags:      input.Tags,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, false, apperrors.MapError(err)
	}
	return contact, created, nil
}
