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

// QueueService manages routing queues.
type QueueService struct {
	store repository.Store
	clock clock.Clock
}

// QueueUpdateInput is a sparse queue update.
type QueueUpdateInput struct {
	Name     *string
	IsActive *bool
}

// NewQueueService constructs the service.
func NewQueueService(store repository.Store, clk clock.Clock) *QueueService {
	if clk == nil {
		clk = clock.Real()
	}
	return &QueueService{store: store, clock: clk}
}

// ListQueues returns queues in creation order.
func (s *QueueService) ListQueues(ctx context.Context) ([]domain.Queue, error) {
	queues, err := s.store.Queues().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return queues, nil
}

// CreateQueue adds a queue. Names are unique.
func (s *QueueService) CreateQueue(ctx context.Context, name string, active bool) (*domain.Queue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errRequired("name")
	}
	now := s.clock.Now()
	queue := &domain.Queue{Name: name, IsActive: active, CreatedAt: now, UpdatedAt: now}
	if err := s.store.Queues().Create(ctx, queue); err != nil {
		return nil, queueWriteError(err, name)
	}
	return queue, nil
}

// UpdateQueue renames or (de)activates a queue.
func (s *QueueService) UpdateQueue(ctx context.Context, id string, input QueueUpdateInput) (*domain.Queue, error) {
	queue, err := s.store.Queues().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "queue", "queue_id", id)
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errRequired("name")
		}
		queue.Name = name
	}
	if input.IsActive != nil {
		queue.IsActive = *input.IsActive
	}
	queue.UpdatedAt = s.clock.Now()
	if err := s.store.Queues().Update(ctx, queue); err != nil {
		return nil, queueWriteError(err, queue.Name)
	}
	return queue, nil
}

func queueWriteError(err error, name string) error {
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewConflict("queue name already exists", map[string]any{"name": name})
	}
	return apperrors.MapError(err)
}
