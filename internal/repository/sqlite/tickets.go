package sqlite

import (
	"context"
	"strings"

	"github.com/google/uuid"

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
	tags, err := encodeStrings(ticket.Tags)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO tickets (id, contact_id, queue_id, kanban_column_id, assigned_to_id, created_by_id,
            status, priority, tags, crm_stage, crm_notes, crm_value, crm_priority, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err = r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.ContactID,
		ticket.QueueID,
		ticket.KanbanColumnID,
		ticket.AssignedToID,
		ticket.CreatedByID,
		ticket.Status,
		ticket.Priority,
		tags,
		ticket.CRMStage,
		ticket.CRMNotes,
		ticket.CRMValue,
		ticket.CRMPriority,
		toNanos(ticket.CreatedAt),
		toNanos(ticket.UpdatedAt),
	)
	return mapErr(err)
}

// Update writes every mutable column. contact_id and created_at never change.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	tags, err := encodeStrings(ticket.Tags)
	if err != nil {
		return err
	}
	const query = `
        UPDATE tickets SET queue_id=?, kanban_column_id=?, assigned_to_id=?, status=?, priority=?,
            tags=?, crm_stage=?, crm_notes=?, crm_value=?, crm_priority=?, updated_at=?
        WHERE id=?`
	res, err := r.db.ExecContext(ctx, query,
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
		toNanos(ticket.UpdatedAt),
		ticket.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=?`, id))
	return ticket, mapErr(err)
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var (
		clauses []string
		args    []any
	)
	if len(filter.Statuses) > 0 {
		marks := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			marks[i] = "?"
			args = append(args, string(status))
		}
		clauses = append(clauses, "status IN ("+strings.Join(marks, ",")+")")
	}
	if filter.QueueID != nil {
		clauses = append(clauses, "queue_id = ?")
		args = append(args, *filter.QueueID)
	}
	if filter.KanbanColumnID != nil {
		clauses = append(clauses, "kanban_column_id = ?")
		args = append(args, *filter.KanbanColumnID)
	}
	if filter.AssignedToID != nil {
		clauses = append(clauses, "assigned_to_id = ?")
		args = append(args, *filter.AssignedToID)
	}
	if filter.ContactID != nil {
		clauses = append(clauses, "contact_id = ?")
		args = append(args, *filter.ContactID)
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY updated_at DESC, rowid DESC"
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ticket_history WHERE ticket_id=?`, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE ticket_id=?`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket             domain.Ticket
		tags               string
		createdAt, updated int64
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.ContactID,
		&ticket.QueueID,
		&ticket.KanbanColumnID,
		&ticket.AssignedToID,
		&ticket.CreatedByID,
		&ticket.Status,
		&ticket.Priority,
		&tags,
		&ticket.CRMStage,
		&ticket.CRMNotes,
		&ticket.CRMValue,
		&ticket.CRMPriority,
		&createdAt,
		&updated,
	); err != nil {
		return nil, err
	}
	decoded, err := decodeStrings(tags)
	if err != nil {
		return nil, err
	}
	ticket.Tags = decoded
	ticket.CreatedAt = fromNanos(createdAt)
	ticket.UpdatedAt = fromNanos(updated)
	return &ticket, nil
}
