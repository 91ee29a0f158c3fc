package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

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
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	const query = `
        INSERT INTO contacts (id, phone, name, tags, notes, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (phone) DO NOTHING
        RETURNING ` + contactColumns
	created, err := scanContact(r.db.QueryRow(ctx, query,
		contact.ID,
		contact.Phone,
		contact.Name,
		contact.Tags,
		contact.Notes,
		contact.CreatedAt,
		contact.UpdatedAt,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, mapErr(err)
	}
	existing, err := r.GetByPhone(ctx, contact.Phone)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	contact, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id=$1`, id))
	return contact, mapErr(err)
}

func (r *contactRepository) GetByPhone(ctx context.Context, phone string) (*domain.Contact, error) {
	contact, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE phone=$1`, phone))
	return contact, mapErr(err)
}

func (r *contactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY updated_at DESC, id`)
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

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var contact domain.Contact
	if err := row.Scan(
		&contact.ID,
		&contact.Phone,
		&contact.Name,
		&contact.Tags,
		&contact.Notes,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &contact, nil
}
