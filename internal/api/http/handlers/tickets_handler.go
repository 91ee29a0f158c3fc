package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tmnegociosdigitais/crmdesk/internal/api/dto"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/service"
)

// TicketsHandler serves ticket and thread endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	messages *service.MessageService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, messages *service.MessageService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, messages: messages}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.TicketListFilter{
		QueueID:        optionalQuery(c, "queueId"),
		KanbanColumnID: optionalQuery(c, "kanbanColumnId"),
		AssignedToID:   optionalQuery(c, "assignedToId"),
		ContactID:      optionalQuery(c, "contactId"),
		Limit:          parseInt(c.Query("limit"), 0),
		Offset:         parseInt(c.Query("offset"), 0),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	views, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(views))
	for i := range views {
		items = append(items, ticketResponse(&views[i]))
	}
	return c.JSON(items)
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	view, err := h.tickets.CreateTicket(c.UserContext(), actor, service.TicketCreateInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Priority: req.Priority,
		CRMValue: req.CRMValue,
		CRMNotes: req.CRMNotes,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticketResponse(view))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	view, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(view))
}

// PatchTicket PATCH /tickets/:id.
func (h *TicketsHandler) PatchTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.PatchTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	view, err := h.tickets.PatchTicket(c.UserContext(), actor, c.Params("id"), domain.TicketPatch{
		Status:         req.Status,
		Priority:       req.Priority,
		AssignedToID:   req.AssignedToID,
		QueueID:        req.QueueID,
		KanbanColumnID: req.KanbanColumnID,
		CRMStage:       req.CRMStage,
		CRMNotes:       req.CRMNotes,
		CRMValue:       req.CRMValue,
		CRMPriority:    req.CRMPriority,
	})
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(view))
}

// MoveTicket PUT /tickets/:id/column.
func (h *TicketsHandler) MoveTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.MoveTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	columnID := ""
	if req.KanbanColumnID != nil {
		columnID = *req.KanbanColumnID
	}
	view, err := h.tickets.MoveTicket(c.UserContext(), actor, c.Params("id"), columnID)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(view))
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteTicket(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	entries, err := h.tickets.ListHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(historyResponses(entries))
}

// ListMessages GET /tickets/:id/messages.
func (h *TicketsHandler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.messages.ListMessages(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(messageResponses(messages))
}

// SendMessage POST /messages.
func (h *TicketsHandler) SendMessage(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	message, err := h.messages.SendMessage(c.UserContext(), actor, service.SendMessageInput{
		TicketID: req.TicketID,
		Content:  req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(messageResponse(message))
}
