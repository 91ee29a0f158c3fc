package service

import (
	"context"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
)

// PlanService resolves the plan of a client.
type PlanService struct {
	plans repository.PlanRepository
}

// NewPlanService constructs the service.
func NewPlanService(plans repository.PlanRepository) *PlanService {
	return &PlanService{plans: plans}
}

// GetClientPlan returns the plan the client subscribes to.
func (s *PlanService) GetClientPlan(ctx context.Context, clientID string) (*domain.Plan, error) {
	plan, err := s.plans.GetClientPlan(ctx, clientID)
	if err != nil {
		return nil, notFoundOr(err, "plan", "client_id", clientID)
	}
	return plan, nil
}
