package seed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/tmnegociosdigitais/crmdesk/internal/auth"
	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/persistence"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository/sqlite"
)

const document = `
plans:
  - id: pro
    name: Pro
    maxKanbanColumns: 5
    canCustomizeKanban: true
clients:
  - id: acme
    name: Acme
    plan: pro
queues:
  - name: Vendas
  - name: Arquivo
    active: false
users:
  - client: acme
    name: Ana
    email: Ana@Acme.test
    password: s3cret!
`

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, persistence.MemoryDSN, true, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)

	file, err := Parse(strings.NewReader(document))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	first, err := Apply(ctx, store, file, bcrypt.MinCost, clk)
	if err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if first != (Result{Plans: 1, Clients: 1, Queues: 2, Users: 1}) {
		t.Errorf("first result = %+v", first)
	}
	second, err := Apply(ctx, store, file, bcrypt.MinCost, clk)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if second.Queues != 0 || second.Users != 0 {
		t.Errorf("second result = %+v, want no new queues or users", second)
	}

	plan, err := store.Plans().GetClientPlan(ctx, "acme")
	if err != nil || plan.MaxKanbanColumns != 5 || !plan.CanCustomizeKanban {
		t.Fatalf("plan = %+v, err = %v", plan, err)
	}
	queue, err := store.Queues().FirstActive(ctx)
	if err != nil || queue.Name != "Vendas" {
		t.Errorf("first active queue = %+v, err = %v", queue, err)
	}
	user, err := store.Users().GetByEmail(ctx, "ana@acme.test")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.Role != "AGENT" || auth.ComparePassword(user.PasswordHash, "s3cret!") != nil {
		t.Errorf("user = %+v", user)
	}
}

func TestApplyRollsBackOnBadUser(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, persistence.MemoryDSN, true, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)

	file := &File{
		Plans:   []Plan{{ID: "pro", Name: "Pro", MaxKanbanColumns: 5}},
		Clients: []Client{{ID: "acme", Name: "Acme", PlanID: "pro"}},
		Users: []User{{Name: "X", Email: "x@y.test", Password: "s3cret!", Role: "OWNER"}},
	}
	if _, err := Apply(ctx, store, file, bcrypt.MinCost, nil); err == nil {
		t.Fatal("expected invalid role error")
	}
	if _, err := store.Plans().GetClient(ctx, "acme"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("client persisted after failed seed: %v", err)
	}
	if _, err := store.Users().GetByEmail(ctx, "x@y.test"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("user persisted after failed seed: %v", err)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse(strings.NewReader("tenants: []\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
	file, err := Parse(strings.NewReader(""))
	if err != nil || len(file.Plans) != 0 {
		t.Errorf("empty document = %+v, %v", file, err)
	}
}
