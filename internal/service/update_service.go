package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

const (
	minUpdateTitle       = 3
	minUpdateDescription = 10
)

// UpdateService manages the announcements administrators publish to every
// agent. Announcements are not scoped to a client.
type UpdateService struct {
	updates repository.UpdateRepository
	clock   clock.Clock
}

// UpdateInput describes a new announcement.
type UpdateInput struct {
	Title       string
	Description string
	Type        domain.UpdateType
	Icon        string
}

// NewUpdateService constructs the service.
func NewUpdateService(updates repository.UpdateRepository, clk clock.Clock) *UpdateService {
	if clk == nil {
		clk = clock.Real()
	}
	return &UpdateService{updates: updates, clock: clk}
}

// ListUpdates returns every announcement, newest first.
func (s *UpdateService) ListUpdates(ctx context.Context) ([]domain.Update, error) {
	updates, err := s.updates.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return updates, nil
}

// CreateUpdate stores an announcement written by actor.
func (s *UpdateService) CreateUpdate(ctx context.Context, actor Actor, input UpdateInput) (*domain.Update, error) {
	update, err := newUpdate(input)
	if err != nil {
		return nil, err
	}
	update.CreatedByID = actor.userID()
	update.CreatedAt = s.clock.Now()
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, apperrors.MapError(err)
	}
	created, err := s.updates.GetByID(ctx, update.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return created, nil
}

// DeleteUpdate removes an announcement. Only its author or a developer may
// delete it.
func (s *UpdateService) DeleteUpdate(ctx context.Context, actor Actor, id string) error {
	update, err := s.updates.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "update", "update_id", id)
	}
	if !canDeleteUpdate(actor, update) {
		return apperrors.NewForbidden("only the author or a developer can delete this update")
	}
	if err := s.updates.Delete(ctx, id); err != nil {
		return notFoundOr(err, "update", "update_id", id)
	}
	return nil
}

func canDeleteUpdate(actor Actor, update *domain.Update) bool {
	if actor.Role == domain.UserRoleDeveloper {
		return true
	}
	return update.CreatedByID != nil && actor.UserID != "" && *update.CreatedByID == actor.UserID
}

func newUpdate(input UpdateInput) (*domain.Update, error) {
	title := strings.TrimSpace(input.Title)
	if utf8.RuneCountInString(title) < minUpdateTitle {
		return nil, apperrors.NewValidationError("title must have at least 3 characters",
			map[string]any{"field": "title", "min": minUpdateTitle})
	}
	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) < minUpdateDescription {
		return nil, apperrors.NewValidationError("description must have at least 10 characters",
			map[string]any{"field": "description", "min": minUpdateDescription})
	}
	updateType := domain.UpdateType(strings.ToUpper(strings.TrimSpace(string(input.Type))))
	if !updateType.Valid() {
		return nil, errInvalidField("type", input.Type)
	}
	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		return nil, errRequired("icon")
	}
	return &domain.Update{
		Title:       title,
		Description: description,
		Type:        updateType,
		Icon:        icon,
	}, nil
}
