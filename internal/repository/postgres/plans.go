package postgres

import (
	"context"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

type planRepository struct {
	db dbtx
}

func (r *planRepository) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var (
		client domain.Client
		planID *string
	)
	err := r.db.QueryRow(ctx, `SELECT id, name, plan_id FROM clients WHERE id=$1`, id).Scan(&client.ID, &client.Name, &planID)
	if err != nil {
		return nil, mapErr(err)
	}
	if planID != nil {
		client.PlanID = *planID
	}
	return &client, nil
}

func (r *planRepository) GetClientPlan(ctx context.Context, clientID string) (*domain.Plan, error) {
	const query = `
        SELECT p.id, p.name, p.max_kanban_columns, p.can_customize_kanban
        FROM clients c JOIN plans p ON p.id = c.plan_id
        WHERE c.id=$1`
	var plan domain.Plan
	if err := r.db.QueryRow(ctx, query, clientID).Scan(&plan.ID, &plan.Name, &plan.MaxKanbanColumns, &plan.CanCustomizeKanban); err != nil {
		return nil, mapErr(err)
	}
	return &plan, nil
}

func (r *planRepository) UpsertPlan(ctx context.Context, plan *domain.Plan) error {
	const query = `
        INSERT INTO plans (id, name, max_kanban_columns, can_customize_kanban)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, max_kanban_columns=EXCLUDED.max_kanban_columns,
            can_customize_kanban=EXCLUDED.can_customize_kanban`
	_, err := r.db.Exec(ctx, query, plan.ID, plan.Name, plan.MaxKanbanColumns, plan.CanCustomizeKanban)
	return mapErr(err)
}

func (r *planRepository) UpsertClient(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (id, name, plan_id) VALUES ($1,$2,NULLIF($3,''))
        ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, plan_id=EXCLUDED.plan_id`
	_, err := r.db.Exec(ctx, query, client.ID, client.Name, client.PlanID)
	return mapErr(err)
}
