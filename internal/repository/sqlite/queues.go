package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

const queueColumns = `id, name, is_active, created_at, updated_at`

type queueRepository struct {
	db dbtx
}

func (r *queueRepository) Create(ctx context.Context, queue *domain.Queue) error {
	if queue.ID == "" {
		queue.ID = uuid.NewString()
	}
	const query = `INSERT INTO queues (id, name, is_active, created_at, updated_at) VALUES (?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, query, queue.ID, queue.Name, queue.IsActive, toNanos(queue.CreatedAt), toNanos(queue.UpdatedAt))
	return mapErr(err)
}

func (r *queueRepository) Update(ctx context.Context, queue *domain.Queue) error {
	res, err := r.db.ExecContext(ctx, `UPDATE queues SET name=?, is_active=?, updated_at=? WHERE id=?`,
		queue.Name, queue.IsActive, toNanos(queue.UpdatedAt), queue.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (r *queueRepository) GetByID(ctx context.Context, id string) (*domain.Queue, error) {
	queue, err := scanQueue(r.db.QueryRowContext(ctx, `SELECT `+queueColumns+` FROM queues WHERE id=?`, id))
	return queue, mapErr(err)
}

func (r *queueRepository) GetByName(ctx context.Context, name string) (*domain.Queue, error) {
	queue, err := scanQueue(r.db.QueryRowContext(ctx, `SELECT `+queueColumns+` FROM queues WHERE name=?`, name))
	return queue, mapErr(err)
}

// FirstActive breaks ties by rowid, i.e. insertion order.
func (r *queueRepository) FirstActive(ctx context.Context) (*domain.Queue, error) {
	const query = `SELECT ` + queueColumns + ` FROM queues WHERE is_active = 1 ORDER BY rowid ASC LIMIT 1`
	queue, err := scanQueue(r.db.QueryRowContext(ctx, query))
	return queue, mapErr(err)
}

func (r *queueRepository) List(ctx context.Context) ([]domain.Queue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+queueColumns+` FROM queues ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Queue
	for rows.Next() {
		queue, err := scanQueue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *queue)
	}
	return result, rows.Err()
}

func scanQueue(row rowScanner) (*domain.Queue, error) {
	var (
		queue              domain.Queue
		createdAt, updated int64
	)
	if err := row.Scan(&queue.ID, &queue.Name, &queue.IsActive, &createdAt, &updated); err != nil {
		return nil, err
	}
	queue.CreatedAt = fromNanos(createdAt)
	queue.UpdatedAt = fromNanos(updated)
	return &queue, nil
}
