package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/tmnegociosdigitais/crmdesk/internal/config"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/persistence"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	"github.com/tmnegociosdigitais/crmdesk/migrations"
)

var epoch = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

const truncateAll = `TRUNCATE updates, ticket_history, messages, tickets, kanban_columns, kanban_configs,
        contacts, queues, users, clients, plans CASCADE`

// openStore connects to the database named by POSTGRES_TEST_DSN, applies the
// migrations and empties every table. The tests share one database and must
// not run in parallel.
func openStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 4}, logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pg.Close)
	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.Postgres(), logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if _, err := pg.Pool.Exec(ctx, truncateAll); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return New(pg.PoolHandle())
}

func seedTenant(t *testing.T, store *Store, canCustomize bool) {
	t.Helper()
	ctx := context.Background()
	plan := &domain.Plan{ID: "pro", Name: "Pro", MaxKanbanColumns: 5, CanCustomizeKanban: canCustomize}
	if err := store.Plans().UpsertPlan(ctx, plan); err != nil {
		t.Fatalf("upsert plan: %v", err)
	}
	if err := store.Plans().UpsertClient(ctx, &domain.Client{ID: "acme", Name: "Acme", PlanID: "pro"}); err != nil {
		t.Fatalf("upsert client: %v", err)
	}
}

func createQueue(t *testing.T, store *Store, name string, active bool) *domain.Queue {
	t.Helper()
	queue := &domain.Queue{Name: name, IsActive: active, CreatedAt: epoch, UpdatedAt: epoch}
	if err := store.Queues().Create(context.Background(), queue); err != nil {
		t.Fatalf("create queue %s: %v", name, err)
	}
	return queue
}

func createTicket(t *testing.T, store *Store, phone string) *domain.Ticket {
	t.Helper()
	ctx := context.Background()
	contact, _, err := store.Contacts().FindOrCreateByPhone(ctx, &domain.Contact{Phone: phone, Name: "Lead", CreatedAt: epoch, UpdatedAt: epoch})
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	queue, err := store.Queues().FirstActive(ctx)
	if err != nil {
		queue = createQueue(t, store, "default-"+phone, true)
	}
	ticket := &domain.Ticket{
		ContactID: contact.ID,
		QueueID:   queue.ID,
		Status:    domain.TicketStatusWaiting,
		Priority:  domain.TicketPriorityLow,
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}
	if err := store.Tickets().Create(ctx, ticket); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func TestContactFindOrCreateKeepsFirstName(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, created, err := store.Contacts().FindOrCreateByPhone(ctx, &domain.Contact{Phone: "+5511999990000", Name: "Maria", CreatedAt: epoch, UpdatedAt: epoch})
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}
	second, created, err := store.Contacts().FindOrCreateByPhone(ctx, &domain.Contact{Phone: "+5511999990000", Name: "Mariana", CreatedAt: epoch, UpdatedAt: epoch})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Error("second call must reuse the contact")
	}
	if second.ID != first.ID || second.Name != "Maria" {
		t.Errorf("second = %+v, want id %s named Maria", second, first.ID)
	}
	all, err := store.Contacts().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("contacts = %d, want 1", len(all))
	}
}

func TestQueueFirstActiveUsesCreationOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Queues().FirstActive(ctx); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("empty store: err = %v, want ErrNotFound", err)
	}

	createQueue(t, store, "Zeta", false)
	second := createQueue(t, store, "Suporte", true)
	createQueue(t, store, "Atendimento", true)

	got, err := store.Queues().FirstActive(ctx)
	if err != nil {
		t.Fatalf("FirstActive: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("FirstActive = %s, want %s (earliest active)", got.Name, second.Name)
	}

	if err := store.Queues().Create(ctx, &domain.Queue{Name: "Suporte", IsActive: true}); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("duplicate name: err = %v, want ErrConflict", err)
	}
}

func TestReplaceColumnsReplacesWholeSet(t *testing.T) {
	store := openStore(t)
	seedTenant(t, store, true)
	ctx := context.Background()

	config, err := store.Kanban().ReplaceColumns(ctx, "acme", domain.DefaultKanbanColumns())
	if err != nil {
		t.Fatalf("initial replace: %v", err)
	}
	if len(config.Columns) != 3 {
		t.Fatalf("columns = %d", len(config.Columns))
	}

	placed := createTicket(t, store, "+1")
	placed.KanbanColumnID = &config.Columns[0].ID
	if err := store.Tickets().Update(ctx, placed); err != nil {
		t.Fatalf("place ticket: %v", err)
	}

	next := []domain.KanbanColumn{
		{ID: config.Columns[0].ID, Name: "Renamed", Color: "#000000", Order: 1},
		{Name: "Brand new", Color: "#FFFFFF", Order: 0},
	}
	replaced, err := store.Kanban().ReplaceColumns(ctx, "acme", next)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.ID != config.ID {
		t.Error("config id changed across replace")
	}

	stored, err := store.Kanban().GetConfig(ctx, "acme")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if len(stored.Columns) != 2 {
		t.Fatalf("stored columns = %d, want 2", len(stored.Columns))
	}
	if stored.Columns[0].Name != "Brand new" || stored.Columns[1].Name != "Renamed" {
		t.Errorf("columns = %+v", stored.Columns)
	}
	for _, column := range stored.Columns {
		for _, old := range config.Columns {
			if column.ID == old.ID {
				t.Errorf("column %s reused id %s", column.Name, old.ID)
			}
		}
	}

	reloaded, err := store.Tickets().GetByID(ctx, placed.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if reloaded.KanbanColumnID != nil {
		t.Errorf("ticket still placed on %s", *reloaded.KanbanColumnID)
	}

	first, err := store.Kanban().FirstColumn(ctx, "acme")
	if err != nil {
		t.Fatalf("FirstColumn: %v", err)
	}
	if first.Name != "Brand new" {
		t.Errorf("FirstColumn = %s", first.Name)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx repository.Store) error {
		if _, _, err := tx.Contacts().FindOrCreateByPhone(ctx, &domain.Contact{Phone: "+55", Name: "x", CreatedAt: epoch, UpdatedAt: epoch}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v", err)
	}
	if _, err := store.Contacts().GetByPhone(ctx, "+55"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("contact survived rollback: err = %v", err)
	}
}

func TestMessagesOrdering(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	ticket := createTicket(t, store, "+9")

	for i, content := range []string{"one", "two", "three"} {
		message := &domain.Message{
			TicketID:  ticket.ID,
			ContactID: ticket.ContactID,
			From:      "Atendente",
			To:        "+9",
			Content:   content,
			Status:    domain.MessageStatusSent,
			Timestamp: epoch.Add(time.Duration(i) * time.Second),
		}
		if err := store.Messages().Create(ctx, message); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	asc, err := store.Messages().ListByTicket(ctx, ticket.ID, domain.OldestFirst, 0)
	if err != nil {
		t.Fatalf("list asc: %v", err)
	}
	if len(asc) != 3 || asc[0].Content != "one" || asc[2].Content != "three" {
		t.Errorf("ascending = %+v", asc)
	}
	latest, err := store.Messages().ListByTicket(ctx, ticket.ID, domain.NewestFirst, 1)
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	if len(latest) != 1 || latest[0].Content != "three" {
		t.Errorf("latest = %+v", latest)
	}
	if !latest[0].Timestamp.Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("timestamp round trip = %v", latest[0].Timestamp)
	}
}

func TestDeleteTicketKeepsContact(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	ticket := createTicket(t, store, "+7")
	if err := store.Messages().Create(ctx, &domain.Message{TicketID: ticket.ID, ContactID: ticket.ContactID, Content: "hi", Status: domain.MessageStatusSent, Timestamp: epoch}); err != nil {
		t.Fatalf("message: %v", err)
	}
	if err := store.History().Create(ctx, &domain.TicketHistory{TicketID: ticket.ID, ChangeType: domain.ChangeTypeStatus, NewValue: map[string]any{"status": "OPEN"}, CreatedAt: epoch}); err != nil {
		t.Fatalf("history: %v", err)
	}

	if err := store.Tickets().Delete(ctx, ticket.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Tickets().GetByID(ctx, ticket.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("ticket still present: %v", err)
	}
	if _, err := store.Contacts().GetByID(ctx, ticket.ContactID); err != nil {
		t.Errorf("contact was removed with ticket: %v", err)
	}
	if err := store.Tickets().Delete(ctx, ticket.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestTicketRoundTripsOptionalFields(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	ticket := createTicket(t, store, "+3")

	value := 1250.5
	notes := "orçamento enviado"
	ticket.CRMValue = &value
	ticket.CRMNotes = &notes
	ticket.Tags = []string{"vip", "retorno"}
	ticket.Priority = domain.TicketPriorityUrgent
	if err := store.Tickets().Update(ctx, ticket); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Tickets().GetByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CRMValue == nil || *got.CRMValue != value {
		t.Errorf("CRMValue = %v", got.CRMValue)
	}
	if got.CRMNotes == nil || *got.CRMNotes != notes {
		t.Errorf("CRMNotes = %v", got.CRMNotes)
	}
	if got.CRMStage != nil || got.KanbanColumnID != nil {
		t.Errorf("unset pointers not nil: stage=%v column=%v", got.CRMStage, got.KanbanColumnID)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "vip" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.Priority != domain.TicketPriorityUrgent {
		t.Errorf("Priority = %s", got.Priority)
	}

	listed, err := store.Tickets().List(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusWaiting}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("listed = %d", len(listed))
	}
}

func TestUpdatesNewestFirstWithAuthor(t *testing.T) {
	store := openStore(t)
	seedTenant(t, store, true)
	ctx := context.Background()

	author := &domain.User{ClientID: "acme", Name: "Root", Email: "root@acme.test", PasswordHash: "x", Role: domain.UserRoleAdmin, IsActive: true, CreatedAt: epoch, UpdatedAt: epoch}
	if err := store.Users().Create(ctx, author); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i, title := range []string{"older", "newer"} {
		update := &domain.Update{
			Title:       title,
			Description: "descrição longa o bastante",
			Type:        domain.UpdateTypeTip,
			Icon:        "bulb",
			CreatedByID: &author.ID,
			CreatedAt:   epoch.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Updates().Create(ctx, update); err != nil {
			t.Fatalf("create update: %v", err)
		}
	}

	list, err := store.Updates().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Title != "newer" || list[1].Title != "older" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].CreatedBy == nil || list[0].CreatedBy.Email != "root@acme.test" {
		t.Errorf("author = %+v", list[0].CreatedBy)
	}
	if !list[1].CreatedAt.Equal(epoch) {
		t.Errorf("created at round trip = %v", list[1].CreatedAt)
	}

	if err := store.Users().Delete(ctx, author.ID); err != nil {
		t.Fatalf("delete author: %v", err)
	}
	orphan, err := store.Updates().GetByID(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if orphan.CreatedByID != nil || orphan.CreatedBy != nil {
		t.Errorf("author kept after delete: %+v", orphan)
	}

	if err := store.Updates().Delete(ctx, orphan.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Updates().Delete(ctx, orphan.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if _, err := store.Updates().GetByID(ctx, orphan.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("GetByID after delete err = %v", err)
	}
}
