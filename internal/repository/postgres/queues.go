package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

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
	const query = `
        INSERT INTO queues (id, name, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.Exec(ctx, query, queue.ID, queue.Name, queue.IsActive, queue.CreatedAt, queue.UpdatedAt)
	return mapErr(err)
}

func (r *queueRepository) Update(ctx context.Context, queue *domain.Queue) error {
	const query = `UPDATE queues SET name=$1, is_active=$2, updated_at=$3 WHERE id=$4`
	tag, err := r.db.Exec(ctx, query, queue.Name, queue.IsActive, queue.UpdatedAt, queue.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(tag)
}

func (r *queueRepository) GetByID(ctx context.Context, id string) (*domain.Queue, error) {
	queue, err := scanQueue(r.db.QueryRow(ctx, `SELECT `+queueColumns+` FROM queues WHERE id=$1`, id))
	return queue, mapErr(err)
}

func (r *queueRepository) GetByName(ctx context.Context, name string) (*domain.Queue, error) {
	queue, err := scanQueue(r.db.QueryRow(ctx, `SELECT `+queueColumns+` FROM queues WHERE name=$1`, name))
	return queue, mapErr(err)
}

// FirstActive breaks ties by the creation sequence column.
func (r *queueRepository) FirstActive(ctx context.Context) (*domain.Queue, error) {
	const query = `SELECT ` + queueColumns + ` FROM queues WHERE is_active ORDER BY seq ASC LIMIT 1`
	queue, err := scanQueue(r.db.QueryRow(ctx, query))
	return queue, mapErr(err)
}

func (r *queueRepository) List(ctx context.Context) ([]domain.Queue, error) {
	rows, err := r.db.Query(ctx, `SELECT `+queueColumns+` FROM queues ORDER BY seq ASC`)
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

func scanQueue(row pgx.Row) (*domain.Queue, error) {
	var queue domain.Queue
	if err := row.Scan(&queue.ID, &queue.Name, &queue.IsActive, &queue.CreatedAt, &queue.UpdatedAt); err != nil {
		return nil, err
	}
	return &queue, nil
}
