package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/tmnegociosdigitais/crmdesk/internal/api/dto"
	"github.com/tmnegociosdigitais/crmdesk/internal/service"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// KanbanHandler serves the board configuration and the client plan.
type KanbanHandler struct {
	kanban *service.KanbanService
	plans  *service.PlanService
}

// NewKanbanHandler constructs handler.
func NewKanbanHandler(kanban *service.KanbanService, plans *service.PlanService) *KanbanHandler {
	return &KanbanHandler{kanban: kanban, plans: plans}
}

// GetConfig GET /kanban-config.
func (h *KanbanHandler) GetConfig(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	config, err := h.kanban.GetConfig(c.UserContext(), actor.ClientID)
	if err != nil {
		return err
	}
	return c.JSON(kanbanConfigResponse(config))
}

// ReplaceConfig PUT /kanban-config.
func (h *KanbanHandler) ReplaceConfig(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ReplaceKanbanConfigRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Columns == nil {
		return apperrors.NewValidationError("columns is required", map[string]any{"field": "columns"})
	}
	inputs := make([]service.KanbanColumnInput, len(req.Columns))
	for i, column := range req.Columns {
		if column.Order == nil {
			field := fmt.Sprintf("columns[%d].order", i)
			return apperrors.NewValidationError(field+" is required", map[string]any{"field": field})
		}
		inputs[i] = service.KanbanColumnInput{Name: column.Name, Color: column.Color, Order: *column.Order}
	}
	config, err := h.kanban.ReplaceConfig(c.UserContext(), actor, inputs)
	if err != nil {
		return err
	}
	return c.JSON(kanbanConfigResponse(config))
}

// MoveColumn POST /kanban-config/columns/:id/move.
func (h *KanbanHandler) MoveColumn(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.MoveColumnRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	config, err := h.kanban.MoveColumn(c.UserContext(), actor, c.Params("id"), req.Direction)
	if err != nil {
		return err
	}
	return c.JSON(kanbanConfigResponse(config))
}

// GetPlan GET /client/plan.
func (h *KanbanHandler) GetPlan(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	plan, err := h.plans.GetClientPlan(c.UserContext(), actor.ClientID)
	if err != nil {
		return err
	}
	return c.JSON(planResponse(plan))
}
