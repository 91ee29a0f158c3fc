package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

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
        VALUES (?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, query,
		update.ID,
		update.Title,
		update.Description,
		update.Type,
		update.Icon,
		update.CreatedByID,
		toNanos(update.CreatedAt),
	)
	return mapErr(err)
}

func (r *updateRepository) GetByID(ctx context.Context, id string) (*domain.Update, error) {
	update, err := scanUpdate(r.db.QueryRowContext(ctx, updateSelect+` WHERE u.id=?`, id))
	return update, mapErr(err)
}

func (r *updateRepository) List(ctx context.Context) ([]domain.Update, error) {
	rows, err := r.db.QueryContext(ctx, updateSelect+` ORDER BY u.created_at DESC, u.rowid DESC`)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM updates WHERE id=?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func scanUpdate(row rowScanner) (*domain.Update, error) {
	var (
		update                  domain.Update
		createdAt               int64
		authorName, authorEmail sql.NullString
	)
	if err := row.Scan(
		&update.ID,
		&update.Title,
		&update.Description,
		&update.Type,
		&update.Icon,
		&update.CreatedByID,
		&createdAt,
		&authorName,
		&authorEmail,
	); err != nil {
		return nil, err
	}
	update.CreatedAt = fromNanos(createdAt)
	if authorName.Valid {
		update.CreatedBy = &domain.UpdateAuthor{Name: authorName.String, Email: authorEmail.String}
	}
	return &update, nil
}
