package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

const contactColumns = `id, phone, name, tags, notes, created_at, updated_at`

type contactRepository struct {
	db dbtx
}

func (r *contactRepository) FindOrCreateByPhone(ctx context.Context, contact *domain.Contact) (*domain.Contact, bool, error) {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	tags, err := encodeStrings(contact.Tags)
	if err != nil {
		return nil, false, err
	}
	const query = `
        INSERT INTO contacts (id, phone, name, tags, notes, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?)
        ON CONFLICT (phone) DO NOTHING
        RETURNING ` + contactColumns
	created, err := scanContact(r.db.QueryRowContext(ctx, query,
		contact.ID,
		contact.Phone,
		contact.Name,
		tags,
		contact.Notes,
		toNanos(contact.CreatedAt),
		toNanos(contact.UpdatedAt),
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, mapErr(err)
	}
	existing, err := r.GetByPhone(ctx, contact.Phone)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	contact, err := scanContact(r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id=?`, id))
	return contact, mapErr(err)
}

func (r *contactRepository) GetByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	contact, err := scanContact(r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE phone=?`, phone))
	return contact, mapErr(err)
}

func (r *contactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY updated_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *contact)
	}
	return result, rows.Err()
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	var (
		contact            domain.Contact
		tags               string
		createdAt, updated int64
	)
	if err := row.Scan(&contact.ID, &contact.Phone, &contact.Name, &tags, &contact.Notes, &createdAt, &updated); err != nil {
		return nil, err
	}
	decoded, err := decodeStrings(tags)
	if err != nil {
		return nil, err
	}
	contact.Tags = decoded
	contact.CreatedAt = fromNanos(createdAt)
	contact.UpdatedAt = fromNanos(updated)
	return &contact, nil
}
