package sqlite

import (
	"context"

	"github.com/google/uuid"

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
        VALUES (?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.ClientID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Department,
		user.IsActive,
		toNanos(user.CreatedAt),
		toNanos(user.UpdatedAt),
	)
	return mapErr(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=?, email=?, password_hash=?, role=?, department=?, is_active=?, updated_at=?
        WHERE id=?`
	res, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Department,
		user.IsActive,
		toNanos(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id))
	return user, mapErr(err)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower(?)`, email))
	return user, mapErr(err)
}

func (r *userRepository) List(ctx context.Context, clientID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE client_id=? ORDER BY created_at ASC, rowid ASC`, clientID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user               domain.User
		createdAt, updated int64
	)
	if err := row.Scan(
		&user.ID,
		&user.ClientID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Department,
		&user.IsActive,
		&createdAt,
		&updated,
	); err != nil {
		return nil, err
	}
	user.CreatedAt = fromNanos(createdAt)
	user.UpdatedAt = fromNanos(updated)
	return &user, nil
}
