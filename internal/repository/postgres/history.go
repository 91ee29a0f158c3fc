package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

type ticketHistoryRepository struct {
	db dbtx
}

func (r *ticketHistoryRepository) Create(ctx context.Context, history *domain.TicketHistory) error {
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO ticket_history (id, ticket_id, changed_by_id, change_type, old_value, new_value, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.Exec(ctx, query,
		history.ID,
		history.TicketID,
		history.ChangedByID,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
		history.CreatedAt,
	)
	return mapErr(err)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT id, ticket_id, changed_by_id, change_type, old_value, new_value, created_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		var history domain.TicketHistory
		if err := rows.Scan(
			&history.ID,
			&history.TicketID,
			&history.ChangedByID,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
