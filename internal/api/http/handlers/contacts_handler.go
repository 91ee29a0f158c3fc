package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tmnegociosdigitais/crmdesk/internal/api/dto"
	"github.com/tmnegociosdigitais/crmdesk/internal/service"
)

// ContactsHandler serves contacts and routing queues.
type ContactsHandler struct {
	contacts *service.ContactService
	queues   *service.QueueService
}

// NewContactsHandler constructs handler.
func NewContactsHandler(contacts *service.ContactService, queues *service.QueueService) *ContactsHandler {
	return &ContactsHandler{contacts: contacts, queues: queues}
}

// ListContacts GET /contacts.
func (h *ContactsHandler) ListContacts(c *fiber.Ctx) error {
	views, err := h.contacts.ListContacts(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ContactResponse, 0, len(views))
	for i := range views {
		items = append(items, contactResponse(&views[i].Contact, views[i].LatestMessage))
	}
	return c.JSON(items)
}

// CreateContact POST /contacts. A known phone answers 200 with the stored contact.
func (h *ContactsHandler) CreateContact(c *fiber.Ctx) error {
	var req dto.CreateContactRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	contact, created, err := h.contacts.CreateContact(c.UserContext(), service.ContactCreateInput{
		Name:  req.Name,
		Phone: req.Phone,
		Tags:  req.Tags,
		Notes: req.Notes,
	})
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(contactResponse(contact, nil))
}

// ListQueues GET /queues.
func (h *ContactsHandler) ListQueues(c *fiber.Ctx) error {
	queues, err := h.queues.ListQueues(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.QueueResponse, 0, len(queues))
	for i := range queues {
		items = append(items, queueResponse(&queues[i]))
	}
	return c.JSON(items)
}

// CreateQueue POST /queues.
func (h *ContactsHandler) CreateQueue(c *fiber.Ctx) error {
	var req dto.CreateQueueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	active := req.IsActive == nil || *req.IsActive
	queue, err := h.queues.CreateQueue(c.UserContext(), req.Name, active)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(queueResponse(queue))
}

// UpdateQueue PATCH /queues/:id.
func (h *ContactsHandler) UpdateQueue(c *fiber.Ctx) error {
	var req dto.UpdateQueueRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	queue, err := h.queues.UpdateQueue(c.UserContext(), c.Params("id"), service.QueueUpdateInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(queueResponse(queue))
}
