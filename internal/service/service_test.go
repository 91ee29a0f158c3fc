package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/events"
	"github.com/tmnegociosdigitais/crmdesk/internal/observability"
	"github.com/tmnegociosdigitais/crmdesk/internal/persistence"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository/sqlite"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

var epoch = time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *sqlite.Store
	clock    *clock.FakeClock
	metrics  *observability.Metrics
	events   *[]events.Event
	tickets  *TicketService
	messages *MessageService
	kanban   *KanbanService
	agent    Actor
	other    Actor
}

// newFixture opens an in-memory store with two tenants: acme on a plan
// that allows five custom columns and basic on a plan that allows none.
func newFixture(t *testing.T, policy TransitionPolicy) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	store, err := sqlite.Open(ctx, persistence.MemoryDSN, true, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)

	plans := []domain.Plan{
		{ID: "pro", Name: "Pro", MaxKanbanColumns: 5, CanCustomizeKanban: true},
		{ID: "free", Name: "Free", MaxKanbanColumns: 3, CanCustomizeKanban: false},
	}
	for i := range plans {
		if err := store.Plans().UpsertPlan(ctx, &plans[i]); err != nil {
			t.Fatalf("upsert plan: %v", err)
		}
	}
	for _, client := range []domain.Client{{ID: "acme", Name: "Acme", PlanID: "pro"}, {ID: "basic", Name: "Basic", PlanID: "free"}} {
		client := client
		if err := store.Plans().UpsertClient(ctx, &client); err != nil {
			t.Fatalf("upsert client: %v", err)
		}
	}

	clk := clock.Fake(epoch)
	recorded := &[]events.Event{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			*recorded = append(*recorded, event)
			return nil
		})
	}
	metrics := observability.NewMetrics("test", nil)

	f := &fixture{
		store:   store,
		clock:   clk,
		metrics: metrics,
		events:  recorded,
		tickets: NewTicketService(TicketDependencies{
			Store: store, Policy: policy, Clock: clk, Dispatcher: dispatcher, Metrics: metrics, Logger: logger,
		}),
		messages: NewMessageService(MessageDependencies{
			Store: store, Policy: policy, Clock: clk, Dispatcher: dispatcher, Metrics: metrics, Logger: logger,
			DefaultSender: "Atendente",
		}),
		kanban: NewKanbanService(KanbanDependencies{
			Store: store, Clock: clk, Dispatcher: dispatcher, Metrics: metrics, Logger: logger,
		}),
	}
	f.agent = ActorFromUser(f.createUser(t, "acme", "ana@acme.test", "Ana"))
	f.other = ActorFromUser(f.createUser(t, "basic", "bob@basic.test", "Bob"))
	return f
}

func (f *fixture) createUser(t *testing.T, clientID, email, name string) *domain.User {
	t.Helper()
	user := &domain.User{
		ClientID:     clientID,
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         domain.UserRoleAgent,
		IsActive:     true,
		CreatedAt:    epoch,
		UpdatedAt:    epoch,
	}
	if err := f.store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (f *fixture) createQueue(t *testing.T, name string, active bool) *domain.Queue {
	t.Helper()
	queue, err := NewQueueService(f.store, f.clock).CreateQueue(context.Background(), name, active)
	if err != nil {
		t.Fatalf("create queue %s: %v", name, err)
	}
	return queue
}

func (f *fixture) createTicket(t *testing.T, phone string) *domain.TicketView {
	t.Helper()
	view, err := f.tickets.CreateTicket(context.Background(), f.agent, TicketCreateInput{Name: "Lead", Phone: phone})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return view
}

func (f *fixture) saveColumns(t *testing.T, names ...string) *domain.KanbanConfig {
	t.Helper()
	inputs := make([]KanbanColumnInput, len(names))
	for i, name := range names {
		inputs[i] = KanbanColumnInput{Name: name, Color: "#111111", Order: i}
	}
	config, err := f.kanban.ReplaceConfig(context.Background(), f.agent, inputs)
	if err != nil {
		t.Fatalf("replace config: %v", err)
	}
	return config
}

func (f *fixture) eventTypes() []events.EventType {
	types := make([]events.EventType, len(*f.events))
	for i, event := range *f.events {
		types[i] = event.Type
	}
	return types
}

func assertCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("error %v is not a DomainError", err)
	}
	if domainErr.Code != code || domainErr.HTTPStatus != status {
		t.Fatalf("error = %s/%d (%v), want %s/%d", domainErr.Code, domainErr.HTTPStatus, err, code, status)
	}
}

func TestPolicies(t *testing.T) {
	for _, from := range domain.TicketStatuses {
		for _, to := range domain.TicketStatuses {
			if !(AllowAll{}).Allow(from, to) {
				t.Errorf("AllowAll rejected %s -> %s", from, to)
			}
		}
	}

	strict := PolicyFor(true)
	tests := []struct {
		from, to domain.TicketStatus
		want     bool
	}{
		{domain.TicketStatusWaiting, domain.TicketStatusOpen, true},
		{domain.TicketStatusWaiting, domain.TicketStatusPending, false},
		{domain.TicketStatusOpen, domain.TicketStatusPending, true},
		{domain.TicketStatusResolved, domain.TicketStatusOpen, true},
		{domain.TicketStatusResolved, domain.TicketStatusWaiting, false},
		{domain.TicketStatusPending, domain.TicketStatusPending, true},
	}
	for _, tt := range tests {
		if got := strict.Allow(tt.from, tt.to); got != tt.want {
			t.Errorf("Strict.Allow(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if _, ok := PolicyFor(false).(AllowAll); !ok {
		t.Error("PolicyFor(false) should allow everything")
	}
}

func TestStringPreview(t *testing.T) {
	if got := stringPreview("olá mundo", 3); got != "olá..." {
		t.Errorf("stringPreview = %q", got)
	}
	if got := stringPreview("short", 10); got != "short" {
		t.Errorf("stringPreview = %q", got)
	}
}
