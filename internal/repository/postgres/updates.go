package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

const updateSelect = `
        SELECT u.id, u.title, u.description, u.type, u.icon, u.created_by_id, u.created_at, a.name, a.email
        FROM updates u LEFT JOIN users a ON a.id = u.created_by_id`

type updateRepository struct {
	db dbtx
}

func (r *updateRepository) Create(ctx context.Context, update *domain.Update) error {
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO updates (id, title, description, type, icon, created_by_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.Exec(ctx, query,
		update.ID,
		update.Title,
		update.Description,
		update.Type,
		update.Icon,
		update.CreatedByID,
		update.CreatedAt,
	)
	return mapErr(err)
}

func (r *updateRepository) GetByID(ctx context.Context, id string) (*domain.Update, error) {
	update, err := scanUpdate(r.db.QueryRow(ctx, updateSelect+` WHERE u.id=$1`, id))
	return update, mapErr(err)
}

func (r *updateRepository) List(ctx context.Context) ([]domain.Update, error) {
	rows, err := r.db.Query(ctx, updateSelect+` ORDER BY u.created_at DESC, u.seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Update{}
	for rows.Next() {
		update, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *update)
	}
	return result, rows.Err()
}

func (r *updateRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM updates WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(tag)
}

func scanUpdate(row pgx.Row) (*domain.Update, error) {
	var (
		update                  domain.Update
		authorName, authorEmail *string
	)
	if err := row.Scan(
		&update.ID,
		&update.Title,
		&update.Description,
		&update.Type,
		&update.Icon,
		&update.CreatedByID,
		&update.CreatedAt,
		&authorName,
		&authorEmail,
	); err != nil {
		return nil, err
	}
	update.CreatedAt = update.CreatedAt.UTC()
	if authorName != nil {
		update.CreatedBy = &domain.UpdateAuthor{Name: *authorName}
		if authorEmail != nil {
			update.CreatedBy.Email = *authorEmail
		}
	}
	return &update, nil
}
