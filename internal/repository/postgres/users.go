package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

const userColumns = `id, client_id, name, email, password_hash, role, department, is_active, created_at, updated_at`

type userRepository struct {
	db dbtx
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO users (id, client_id, name, email, password_hash, role, department, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.ClientID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Department,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapErr(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, role=$4, department=$5, is_active=$6, updated_at=$7
        WHERE id=$8`
	tag, err := r.db.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Department,
		user.IsActive,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(tag)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	return user, mapErr(err)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
	return user, mapErr(err)
}

func (r *userRepository) List(ctx context.Context, clientID string) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE client_id=$1 ORDER BY created_at ASC, id`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(tag)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.ClientID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Department,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
