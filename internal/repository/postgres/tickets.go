package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
)

const ticketColumns = `id, contact_id, queue_id, kanban_column_id, assigned_to_id, created_by_id,
               status, priority, tags, crm_stage, crm_notes, crm_value, crm_priority, created_at, updated_at`

type ticketRepository struct {
	db dbtx
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.Tags == nil {
		ticket.Tags = []string{}
	}
	const query = `
        INSERT INTO tickets (id, contact_id, queue_id, kanban_column_id, assigned_to_id, created_by_id,
            status, priority, tags, crm_stage, crm_notes, crm_value, crm_priority, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.ContactID,
		ticket.QueueID,
		ticket.KanbanColumnID,
		ticket.AssignedToID,
		ticket.CreatedByID,
		ticket.Status,
		ticket.Priority,
		ticket.Tags,
		ticket.CRMStage,
		ticket.CRMNotes,
		ticket.CRMValue,
		ticket.CRMPriority,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return mapErr(err)
}

// Update writes every mutable column. contact_id and created_at never change.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET queue_id=$1, kanban_column_id=$2, assigned_to_id=$3, status=$4, priority=$5,
            tags=$6, crm_stage=$7, crm_notes=$8, crm_value=$9, crm_priority=$10, updated_at=$11
        WHERE id=$12`
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}
	tag, err := r.db.Exec(ctx, query,
		ticket.QueueID,
		ticket.KanbanColumnID,
		ticket.AssignedToID,
		ticket.Status,
		ticket.Priority,
		tags,
		ticket.CRMStage,
		ticket.CRMNotes,
		ticket.CRMValue,
		ticket.CRMPriority,
		ticket.UpdatedAt,
		ticket.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(tag)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
	return ticket, mapErr(err)
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		add("status = ANY($%d)", statuses)
	}
	if filter.QueueID != nil {
		add("queue_id = $%d", *filter.QueueID)
	}
	if filter.KanbanColumnID != nil {
		add("kanban_column_id = $%d", *filter.KanbanColumnID)
	}
	if filter.AssignedToID != nil {
		add("assigned_to_id = $%d", *filter.AssignedToID)
	}
	if filter.ContactID != nil {
		add("contact_id = $%d", *filter.ContactID)
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY updated_at DESC, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ticket_history WHERE ticket_id=$1`, id); err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM messages WHERE ticket_id=$1`, id); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(tag)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ContactID,
		&ticket.QueueID,
		&ticket.KanbanColumnID,
		&ticket.AssignedToID,
		&ticket.CreatedByID,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Tags,
		&ticket.CRMStage,
		&ticket.CRMNotes,
		&ticket.CRMValue,
		&ticket.CRMPriority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
