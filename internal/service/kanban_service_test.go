package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

func TestGetConfigReturnsUnsavedDefault(t *testing.T) {
	f := newFixture(t, nil)

	config, err := f.kanban.GetConfig(context.Background(), "acme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if config.Persisted() {
		t.Error("default config reported as persisted")
	}
	if len(config.Columns) != 3 || config.Columns[0].Name != "Novos Leads" {
		t.Errorf("columns = %+v", config.Columns)
	}
	if _, err := f.store.Kanban().GetConfig(context.Background(), "acme"); err == nil {
		t.Error("reading the default must not persist it")
	}
}

func TestReplaceConfigKeepsDenseOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	inputs := []KanbanColumnInput{
		{Name: "Fechado", Color: "#00FF00", Order: 2},
		{Name: "Novo", Color: "#0000FF", Order: 0},
		{Name: "Proposta", Color: "#FFFF00", Order: 1},
	}
	if _, err := f.kanban.ReplaceConfig(ctx, f.agent, inputs); err != nil {
		t.Fatalf("replace: %v", err)
	}

	config, err := f.kanban.GetConfig(ctx, "acme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wantNames := []string{"Novo", "Proposta", "Fechado"}
	for i, column := range config.Columns {
		if column.Order != i || column.Name != wantNames[i] {
			t.Errorf("position %d = %s/%d, want %s/%d", i, column.Name, column.Order, wantNames[i], i)
		}
	}
	if testutil.ToFloat64(f.metrics.KanbanWrites.WithLabelValues(kanbanResultOK)) != 1 {
		t.Error("successful write not counted")
	}
}

func TestReplaceConfigRejectsBadOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		inputs []KanbanColumnInput
	}{
		{"gap", []KanbanColumnInput{{Name: "A", Order: 0}, {Name: "B", Order: 2}}},
		{"duplicate", []KanbanColumnInput{{Name: "A", Order: 1}, {Name: "B", Order: 1}}},
		{"blank name", []KanbanColumnInput{{Name: " ", Order: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.kanban.ReplaceConfig(ctx, f.agent, tt.inputs)
			assertCode(t, err, apperrors.CodeValidation, http.StatusBadRequest)
		})
	}
	config, err := f.kanban.GetConfig(ctx, "acme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if config.Persisted() {
		t.Error("rejected writes persisted a config")
	}
}

func TestPlanGateLeavesStoredConfigUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	saved := f.saveColumns(t, "A", "B")

	if err := f.store.Plans().UpsertClient(ctx, &domain.Client{ID: "acme", Name: "Acme", PlanID: "free"}); err != nil {
		t.Fatalf("downgrade: %v", err)
	}
	*f.events = nil

	_, err := f.kanban.ReplaceConfig(ctx, f.agent, []KanbanColumnInput{{Name: "Only", Order: 0}})
	assertCode(t, err, CodePlanRestriction, http.StatusForbidden)

	after, err := f.kanban.GetConfig(ctx, "acme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(saved, after) {
		t.Errorf("config changed:\nbefore %+v\nafter  %+v", saved, after)
	}
	if len(*f.events) != 0 {
		t.Errorf("events = %v", f.eventTypes())
	}

	_, err = f.kanban.ReplaceConfig(ctx, f.other, []KanbanColumnInput{{Name: "X", Order: 0}})
	assertCode(t, err, CodePlanRestriction, http.StatusForbidden)
}

func TestReplaceConfigEnforcesColumnLimit(t *testing.T) {
	f := newFixture(t, nil)
	inputs := make([]KanbanColumnInput, 6)
	for i := range inputs {
		inputs[i] = KanbanColumnInput{Name: string(rune('A' + i)), Order: i}
	}

	_, err := f.kanban.ReplaceConfig(context.Background(), f.agent, inputs)
	assertCode(t, err, CodeColumnLimitExceeded, http.StatusBadRequest)

	if _, err := f.kanban.ReplaceConfig(context.Background(), f.agent, inputs[:5]); err != nil {
		t.Fatalf("five columns should fit the plan: %v", err)
	}
}

func TestReplaceConfigRecreatesColumnsAndUnplacesTickets(t *testing.T) {
	f := newFixture(t, nil)
	f.createQueue(t, "Vendas", true)
	ctx := context.Background()
	saved := f.saveColumns(t, "A", "B")
	placed := f.createTicket(t, "+5511900002222")
	if placed.KanbanColumnID == nil || *placed.KanbanColumnID != saved.Columns[0].ID {
		t.Fatalf("new ticket column = %v, want first column", placed.KanbanColumnID)
	}

	next := f.saveColumns(t, "A", "B")

	oldIDs := map[string]bool{}
	for _, column := range saved.Columns {
		oldIDs[column.ID] = true
	}
	for _, column := range next.Columns {
		if oldIDs[column.ID] {
			t.Errorf("column %s kept id %s across replace", column.Name, column.ID)
		}
	}
	if next.ID != saved.ID {
		t.Error("config id changed across replace")
	}
	for _, column := range saved.Columns {
		if _, err := f.store.Kanban().GetColumn(ctx, column.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("old column %s still stored: %v", column.Name, err)
		}
	}

	stored, err := f.store.Tickets().GetByID(ctx, placed.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.OnBoard() {
		t.Errorf("ticket still placed on %s after replace", *stored.KanbanColumnID)
	}
}

func TestMoveColumnSwapsNeighbours(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	saved := f.saveColumns(t, "A", "B", "C")

	config, err := f.kanban.MoveColumn(ctx, f.agent, saved.Columns[2].ID, domain.MoveUp)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	wantNames := []string{"A", "C", "B"}
	for i, column := range config.Columns {
		if column.Name != wantNames[i] || column.Order != i {
			t.Errorf("position %d = %s/%d", i, column.Name, column.Order)
		}
	}

	// ids are reissued on every save
	_, err = f.kanban.MoveColumn(ctx, f.agent, saved.Columns[1].ID, domain.MoveUp)
	assertCode(t, err, apperrors.CodeNotFound, http.StatusNotFound)

	_, err = f.kanban.MoveColumn(ctx, f.agent, config.Columns[0].ID, domain.MoveUp)
	assertCode(t, err, apperrors.CodeValidation, http.StatusBadRequest)

	_, err = f.kanban.MoveColumn(ctx, f.agent, config.Columns[0].ID, "left")
	assertCode(t, err, apperrors.CodeValidation, http.StatusBadRequest)
}
