package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

const kanbanColumnColumns = `id, config_id, name, color, position`

type kanbanRepository struct {
	db dbtx
}

func (r *kanbanRepository) GetConfig(ctx context.Context, clientID string) (*domain.KanbanConfig, error) {
	config := domain.KanbanConfig{ClientID: clientID}
	err := r.db.QueryRowContext(ctx, `SELECT id FROM kanban_configs WHERE client_id=?`, clientID).Scan(&config.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	columns, err := r.listColumns(ctx, config.ID)
	if err != nil {
		return nil, err
	}
	config.Columns = columns
	return &config, nil
}

func (r *kanbanRepository) ReplaceColumns(ctx context.Context, clientID string, columns []domain.KanbanColumn) (*domain.KanbanConfig, error) {
	configID, err := r.ensureConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	const unplace = `
        UPDATE tickets SET kanban_column_id=NULL
        WHERE kanban_column_id IN (SELECT id FROM kanban_columns WHERE config_id=?)`
	if _, err := r.db.ExecContext(ctx, unplace, configID); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kanban_columns WHERE config_id=?`, configID); err != nil {
		return nil, err
	}

	const insert = `INSERT INTO kanban_columns (id, config_id, name, color, position) VALUES (?,?,?,?,?)`
	next := make([]domain.KanbanColumn, len(columns))
	for i, column := range columns {
		column.ID = uuid.NewString()
		column.ConfigID = configID
		if _, err := r.db.ExecContext(ctx, insert, column.ID, configID, column.Name, column.Color, column.Order); err != nil {
			return nil, mapErr(err)
		}
		next[i] = column
	}

	domain.SortColumns(next)
	return &domain.KanbanConfig{ID: configID, ClientID: clientID, Columns: next}, nil
}

func (r *kanbanRepository) GetColumn(ctx context.Context, id string) (*domain.KanbanColumn, error) {
	column, err := scanKanbanColumn(r.db.QueryRowContext(ctx, `SELECT `+kanbanColumnColumns+` FROM kanban_columns WHERE id=?`, id))
	return column, mapErr(err)
}

func (r *kanbanRepository) FirstColumn(ctx context.Context, clientID string) (*domain.KanbanColumn, error) {
	const query = `
        SELECT c.id, c.config_id, c.name, c.color, c.position
        FROM kanban_columns c JOIN kanban_configs k ON k.id = c.config_id
        WHERE k.client_id=?
        ORDER BY c.position ASC LIMIT 1`
	column, err := scanKanbanColumn(r.db.QueryRowContext(ctx, query, clientID))
	return column, mapErr(err)
}

func (r *kanbanRepository) ensureConfig(ctx context.Context, clientID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM kanban_configs WHERE client_id=?`, clientID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id = uuid.NewString()
	if _, err := r.db.ExecContext(ctx, `INSERT INTO kanban_configs (id, client_id) VALUES (?,?)`, id, clientID); err != nil {
		return "", mapErr(err)
	}
	return id, nil
}

func (r *kanbanRepository) listColumns(ctx context.Context, configID string) ([]domain.KanbanColumn, error) {
	const query = `SELECT ` + kanbanColumnColumns + ` FROM kanban_columns WHERE config_id=? ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, query, configID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := []domain.KanbanColumn{}
	for rows.Next() {
		column, err := scanKanbanColumn(rows)
		if err != nil {
			return nil, err
		}
		columns = append(columns, *column)
	}
	return columns, rows.Err()
}

func scanKanbanColumn(row rowScanner) (*domain.KanbanColumn, error) {
	var column domain.KanbanColumn
	if err := row.Scan(&column.ID, &column.ConfigID, &column.Name, &column.Color, &column.Order); err != nil {
		return nil, err
	}
	return &column, nil
}
