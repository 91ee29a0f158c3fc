package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tmnegociosdigitais/crmdesk/internal/api/dto"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/service"
)

// UpdatesHandler serves the admin announcements board.
type UpdatesHandler struct {
	updates *service.UpdateService
}

// NewUpdatesHandler constructs handler.
func NewUpdatesHandler(updates *service.UpdateService) *UpdatesHandler {
	return &UpdatesHandler{updates: updates}
}

// ListUpdates handles GET /admin/updates.
func (h *UpdatesHandler) ListUpdates(c *fiber.Ctx) error {
	updates, err := h.updates.ListUpdates(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.UpdateResponse, 0, len(updates))
	for i := range updates {
		resp = append(resp, updateResponse(&updates[i]))
	}
	return c.JSON(resp)
}

// CreateUpdate handles POST /admin/updates.
func (h *UpdatesHandler) CreateUpdate(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	update, err := h.updates.CreateUpdate(c.UserContext(), actor, service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Icon:        req.Icon,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(updateResponse(update))
}

// DeleteUpdate handles DELETE /admin/updates/:id.
func (h *UpdatesHandler) DeleteUpdate(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.updates.DeleteUpdate(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func updateResponse(update *domain.Update) dto.UpdateResponse {
	resp := dto.UpdateResponse{
		ID:          update.ID,
		Title:       update.Title,
		Description: update.Description,
		Type:        update.Type,
		Icon:        update.Icon,
		CreatedByID: update.CreatedByID,
		CreatedAt:   update.CreatedAt,
	}
	if update.CreatedBy != nil {
		resp.CreatedBy = &dto.UpdateAuthorResponse{Name: update.CreatedBy.Name, Email: update.CreatedBy.Email}
	}
	return resp
}
