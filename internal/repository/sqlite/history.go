package sqlite

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
	oldValue, err := encodeMap(history.OldValue)
	if err != nil {
		return err
	}
	newValue, err := encodeMap(history.NewValue)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO ticket_history (id, ticket_id, changed_by_id, change_type, old_value, new_value, created_at)
        VALUES (?,?,?,?,?,?,?)`
	_, err = r.db.ExecContext(ctx, query,
		history.ID,
		history.TicketID,
		history.ChangedByID,
		history.ChangeType,
		oldValue,
		newValue,
		toNanos(history.CreatedAt),
	)
	return mapErr(err)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT id, ticket_id, changed_by_id, change_type, old_value, new_value, created_at
        FROM ticket_history WHERE ticket_id=? ORDER BY created_at ASC, rowid ASC`
	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		var (
			history            domain.TicketHistory
			oldValue, newValue *string
			createdAt          int64
		)
		if err := rows.Scan(
			&history.ID,
			&history.TicketID,
			&history.ChangedByID,
			&history.ChangeType,
			&oldValue,
			&newValue,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if history.OldValue, err = decodeMap(oldValue); err != nil {
			return nil, err
		}
		if history.NewValue, err = decodeMap(newValue); err != nil {
			return nil, err
		}
		history.CreatedAt = fromNanos(createdAt)
		result = append(result, history)
	}
	return result, rows.Err()
}
