package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

const messageColumns = `id, ticket_id, contact_id, sender, recipient, content, status, sent_at`

type messageRepository struct {
	db dbtx
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO messages (id, ticket_id, contact_id, sender, recipient, content, status, sent_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.Exec(ctx, query,
		message.ID,
		message.TicketID,
		message.ContactID,
		message.From,
		message.To,
		message.Content,
		message.Status,
		message.Timestamp,
	)
	return mapErr(err)
}

// ListByTicket breaks timestamp ties by insertion sequence.
func (r *messageRepository) ListByTicket(ctx context.Context, ticketID string, order domain.SortOrder, limit int) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE ticket_id=$1`
	if order == domain.NewestFirst {
		query += ` ORDER BY sent_at DESC, seq DESC`
	} else {
		query += ` ORDER BY sent_at ASC, seq ASC`
	}
	args := []any{ticketID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Message{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *message)
	}
	return result, rows.Err()
}

func (r *messageRepository) LatestByContact(ctx context.Context, contactID string) (*domain.Message, error) {
	const query = `SELECT ` + messageColumns + ` FROM messages WHERE contact_id=$1 ORDER BY sent_at DESC, seq DESC LIMIT 1`
	message, err := scanMessage(r.db.QueryRow(ctx, query, contactID))
	return message, mapErr(err)
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var message domain.Message
	if err := row.Scan(
		&message.ID,
		&message.TicketID,
		&message.ContactID,
		&message.From,
		&message.To,
		&message.Content,
		&message.Status,
		&message.Timestamp,
	); err != nil {
		return nil, err
	}
	return &message, nil
}
