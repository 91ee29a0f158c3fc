package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/cache"
	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/events"
	"github.com/tmnegociosdigitais/crmdesk/internal/observability"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// Kanban write results reported to metrics.
const (
	kanbanResultOK         = "ok"
	kanbanResultRestricted = "plan_restricted"
	kanbanResultLimit      = "limit_exceeded"
	kanbanResultInvalid    = "invalid"
	kanbanResultError      = "error"
)

// KanbanService reads and replaces per-client board configurations.
type KanbanService struct {
	store   repository.Store
	cache   *cache.KanbanConfigCache
	metrics *observability.Metrics
	logger  *zap.Logger
	events  publisher
}

// KanbanDependencies bundles collaborators for the kanban service.
type KanbanDependencies struct {
	Store      repository.Store
	Cache      *cache.KanbanConfigCache
	Clock      clock.Clock
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// KanbanColumnInput is one column of a replace request. Every saved column
// gets a fresh id.
type KanbanColumnInput struct {
	Name  string
	Color string
	Order int
}

// NewKanbanService constructs the service.
func NewKanbanService(deps KanbanDependencies) *KanbanService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &KanbanService{
		store:   deps.Store,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		events:  publisher{dispatcher: deps.Dispatcher, clock: deps.Clock, logger: deps.Logger},
	}
}

// GetConfig returns the client's saved board, or the default board when
// nothing was saved yet. The default is not persisted.
func (s *KanbanService) GetConfig(ctx context.Context, clientID string) (*domain.KanbanConfig, error) {
	if config, ok := s.cache.Get(ctx, clientID); ok {
		return config, nil
	}
	config, err := s.store.Kanban().GetConfig(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultKanbanConfig(clientID), nil
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, config)
	return config, nil
}

// ReplaceConfig makes columns the complete board of the actor's client.
// Plan checks run before anything is written.
func (s *KanbanService) ReplaceConfig(ctx context.Context, actor Actor, inputs []KanbanColumnInput) (*domain.KanbanConfig, error) {
	config, result, err := s.replace(ctx, actor, inputs)
	s.metrics.RecordKanbanWrite(result)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, actor.ClientID)
	s.events.publish(ctx, events.Event{
		Type:  events.EventKanbanConfigReplaced,
		Actor: actor.event(),
		Payload: events.KanbanConfigReplacedPayload{
			ConfigID: config.ID,
			Columns:  len(config.Columns),
		},
	})
	return config, nil
}

func (s *KanbanService) replace(ctx context.Context, actor Actor, inputs []KanbanColumnInput) (*domain.KanbanConfig, string, error) {
	if actor.ClientID == "" {
		return nil, kanbanResultRestricted, apperrors.NewForbidden("user is not bound to a client")
	}

	plan, err := s.store.Plans().GetClientPlan(ctx, actor.ClientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, kanbanResultRestricted, errPlanRestriction("")
	}
	if err != nil {
		return nil, kanbanResultError, apperrors.MapError(err)
	}
	if !plan.CanCustomizeKanban {
		return nil, kanbanResultRestricted, errPlanRestriction(plan.ID)
	}
	if len(inputs) > plan.MaxKanbanColumns {
		return nil, kanbanResultLimit, errColumnLimitExceeded(plan.MaxKanbanColumns, len(inputs))
	}

	columns := make([]domain.KanbanColumn, len(inputs))
	for i, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, kanbanResultInvalid, errRequired(fmt.Sprintf("columns[%d].name", i))
		}
		columns[i] = domain.KanbanColumn{
			Name:  name,
			Color: strings.TrimSpace(input.Color),
			Order: input.Order,
		}
	}
	if err := domain.ValidateColumnOrder(columns); err != nil {
		return nil, kanbanResultInvalid, apperrors.NewValidationError(err.Error(), map[string]any{"field": "columns.order"})
	}

	var config *domain.KanbanConfig
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		config, err = tx.Kanban().ReplaceColumns(ctx, actor.ClientID, columns)
		return err
	})
	if err != nil {
		s.logger.Error("kanban config replace failed", zap.String("client_id", actor.ClientID), zap.Error(err))
		return nil, kanbanResultError, apperrors.MapError(err)
	}
	return config, kanbanResultOK, nil
}

// MoveColumn swaps the column with its neighbour in direction and saves the
// board through ReplaceConfig. The saved board has fresh column ids; the
// moved column sits at its new position.
func (s *KanbanService) MoveColumn(ctx context.Context, actor Actor, columnID, direction string) (*domain.KanbanConfig, error) {
	if direction != domain.MoveUp && direction != domain.MoveDown {
		return nil, errInvalidField("direction", direction)
	}
	config, err := s.store.Kanban().GetConfig(ctx, actor.ClientID)
	if err != nil {
		return nil, notFoundOr(err, "kanban column", "kanban_column_id", columnID)
	}

	columns := append([]domain.KanbanColumn(nil), config.Columns...)
	domain.SortColumns(columns)
	index := -1
	for i, column := range columns {
		if column.ID == columnID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, apperrors.NewNotFound("kanban column", map[string]any{"kanban_column_id": columnID})
	}
	if err := domain.SwapAdjacent(columns, index, direction); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "direction"})
	}

	inputs := make([]KanbanColumnInput, len(columns))
	for i, column := range columns {
		inputs[i] = KanbanColumnInput{Name: column.Name, Color: column.Color, Order: column.Order}
	}
	return s.ReplaceConfig(ctx, actor, inputs)
}
