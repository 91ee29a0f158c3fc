package sqlite

import (
	"context"

	"github.com/google/uuid"

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
        VALUES (?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.TicketID,
		message.ContactID,
		message.From,
		message.To,
		message.Content,
		message.Status,
		toNanos(message.Timestamp),
	)
	return mapErr(err)
}

// ListByTicket breaks timestamp ties by rowid.
func (r *messageRepository) ListByTicket(ctx context.Context, ticketID string, order domain.SortOrder, limit int) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE ticket_id=?`
	if order == domain.NewestFirst {
		query += ` ORDER BY sent_at DESC, rowid DESC`
	} else {
		query += ` ORDER BY sent_at ASC, rowid ASC`
	}
	args := []any{ticketID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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
	const query = `SELECT ` + messageColumns + ` FROM messages WHERE contact_id=? ORDER BY sent_at DESC, rowid DESC LIMIT 1`
	message, err := scanMessage(r.db.QueryRowContext(ctx, query, contactID))
	return message, mapErr(err)
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		message domain.Message
		sentAt  int64
	)
	if err := row.Scan(
		&message.ID,
		&message.TicketID,
		&message.ContactID,
		&message.From,
		&message.To,
		&message.Content,
		&message.Status,
		&sentAt,
	); err != nil {
		return nil, err
	}
	message.Timestamp = fromNanos(sentAt)
	return &message, nil
}
