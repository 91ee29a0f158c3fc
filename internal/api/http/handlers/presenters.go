package handlers

import (
	"github.com/tmnegociosdigitais/crmdesk/internal/api/dto"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

func ticketResponse(view *domain.TicketView) dto.TicketResponse {
	tags := view.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := dto.TicketResponse{
		ID:             view.ID,
		ContactID:      view.ContactID,
		QueueID:        view.QueueID,
		KanbanColumnID: view.KanbanColumnID,
		AssignedToID:   view.AssignedToID,
		CreatedByID:    view.CreatedByID,
		Status:         view.Status,
		Priority:       view.Priority,
		Tags:           tags,
		CRMStage:       view.CRMStage,
		CRMNotes:       view.CRMNotes,
		CRMValue:       view.CRMValue,
		CRMPriority:    view.CRMPriority,
		CreatedAt:      view.CreatedAt,
		UpdatedAt:      view.UpdatedAt,
	}
	if view.Contact != nil {
		contact := contactResponse(view.Contact, nil)
		resp.Contact = &contact
	}
	if view.Queue != nil {
		queue := queueResponse(view.Queue)
		resp.Queue = &queue
	}
	if view.KanbanColumn != nil {
		column := columnResponse(*view.KanbanColumn)
		resp.KanbanColumn = &column
	}
	if view.AssignedTo != nil {
		user := userResponse(view.AssignedTo)
		resp.AssignedTo = &user
	}
	if view.LatestMessage != nil {
		message := messageResponse(view.LatestMessage)
		resp.LatestMessage = &message
	}
	if len(view.Messages) > 0 {
		resp.Messages = messageResponses(view.Messages)
	}
	return resp
}

func messageResponse(message *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        message.ID,
		TicketID:  message.TicketID,
		ContactID: message.ContactID,
		From:      message.From,
		To:        message.To,
		Content:   message.Content,
		Status:    message.Status,
		Timestamp: message.Timestamp,
	}
}

func messageResponses(messages []domain.Message) []dto.MessageResponse {
	resp := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		resp = append(resp, messageResponse(&messages[i]))
	}
	return resp
}

func contactResponse(contact *domain.Contact, latest *domain.Message) dto.ContactResponse {
	tags := contact.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := dto.ContactResponse{
		ID:        contact.ID,
		Phone:     contact.Phone,
		Name:      contact.Name,
		Tags:      tags,
		Notes:     contact.Notes,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
	if latest != nil {
		message := messageResponse(latest)
		resp.LatestMessage = &message
	}
	return resp
}

func queueResponse(queue *domain.Queue) dto.QueueResponse {
	return dto.QueueResponse{
		ID:        queue.ID,
		Name:      queue.Name,
		IsActive:  queue.IsActive,
		CreatedAt: queue.CreatedAt,
		UpdatedAt: queue.UpdatedAt,
	}
}

func columnResponse(column domain.KanbanColumn) dto.KanbanColumnResponse {
	return dto.KanbanColumnResponse{ID: column.ID, Name: column.Name, Color: column.Color, Order: column.Order}
}

func kanbanConfigResponse(config *domain.KanbanConfig) dto.KanbanConfigResponse {
	columns := make([]dto.KanbanColumnResponse, 0, len(config.Columns))
	for _, column := range config.Columns {
		columns = append(columns, columnResponse(column))
	}
	return dto.KanbanConfigResponse{
		ID:        config.ID,
		ClientID:  config.ClientID,
		Persisted: config.Persisted(),
		Columns:   columns,
	}
}

func planResponse(plan *domain.Plan) dto.PlanResponse {
	return dto.PlanResponse{
		ID:                 plan.ID,
		Name:               plan.Name,
		MaxKanbanColumns:   plan.MaxKanbanColumns,
		CanCustomizeKanban: plan.CanCustomizeKanban,
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		ClientID:   user.ClientID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func historyResponses(entries []domain.TicketHistory) []dto.TicketHistoryResponse {
	resp := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TicketHistoryResponse{
			ID:          entry.ID,
			ChangeType:  entry.ChangeType,
			ChangedByID: entry.ChangedByID,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return resp
}
