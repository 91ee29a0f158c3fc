package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

func TestCreateUpdateValidation(t *testing.T) {
	f := newFixture(t, nil)
	updates := NewUpdateService(f.store.Updates(), f.clock)
	valid := UpdateInput{Title: "Novidade", Description: "Agora com etiquetas.", Type: domain.UpdateTypeUpdate, Icon: "sparkles"}

	tests := []struct {
		name  string
		edit  func(*UpdateInput)
		field string
	}{
		{"short title", func(in *UpdateInput) { in.Title = " ab " }, "title"},
		{"short description", func(in *UpdateInput) { in.Description = "curta     " }, "description"},
		{"unknown type", func(in *UpdateInput) { in.Type = "NEWS" }, "type"},
		{"missing icon", func(in *UpdateInput) { in.Icon = "  " }, "icon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.edit(&input)
			_, err := updates.CreateUpdate(context.Background(), f.agent, input)
			assertCode(t, err, apperrors.CodeValidation, http.StatusBadRequest)
			if field := apperrors.ToDomainError(err).Details["field"]; field != tt.field {
				t.Errorf("field = %v, want %s", field, tt.field)
			}
		})
	}

	input := valid
	input.Type = "tip"
	input.Title = "  Três  "
	update, err := updates.CreateUpdate(context.Background(), f.agent, input)
	if err != nil {
		t.Fatalf("CreateUpdate: %v", err)
	}
	if update.Type != domain.UpdateTypeTip || update.Title != "Três" {
		t.Errorf("update = %+v", update)
	}
	if update.CreatedByID == nil || *update.CreatedByID != f.agent.UserID {
		t.Errorf("created by = %v", update.CreatedByID)
	}
	if update.CreatedBy == nil || update.CreatedBy.Email != "ana@acme.test" || update.CreatedBy.Name != "Ana" {
		t.Errorf("author = %+v", update.CreatedBy)
	}
	if !update.CreatedAt.Equal(epoch) {
		t.Errorf("created at = %s", update.CreatedAt)
	}
}

func TestDeleteUpdateAuthorOrDeveloper(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	updates := NewUpdateService(f.store.Updates(), f.clock)

	admin := ActorFromUser(f.createUser(t, "acme", "root@acme.test", "Root"))
	admin.Role = domain.UserRoleAdmin
	otherAdmin := ActorFromUser(f.createUser(t, "acme", "chefe@acme.test", "Chefe"))
	otherAdmin.Role = domain.UserRoleAdmin
	developer := ActorFromUser(f.createUser(t, "basic", "dev@basic.test", "Dev"))
	developer.Role = domain.UserRoleDeveloper

	create := func() *domain.Update {
		t.Helper()
		update, err := updates.CreateUpdate(ctx, admin, UpdateInput{
			Title: "Manutenção", Description: "Janela no domingo às 02h.", Type: domain.UpdateTypeAnnouncement, Icon: "wrench",
		})
		if err != nil {
			t.Fatalf("CreateUpdate: %v", err)
		}
		return update
	}

	first := create()
	assertCode(t, updates.DeleteUpdate(ctx, otherAdmin, first.ID), apperrors.CodeForbidden, http.StatusForbidden)
	if err := updates.DeleteUpdate(ctx, admin, first.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	assertCode(t, updates.DeleteUpdate(ctx, admin, first.ID), apperrors.CodeNotFound, http.StatusNotFound)

	second := create()
	if err := updates.DeleteUpdate(ctx, developer, second.ID); err != nil {
		t.Fatalf("developer delete: %v", err)
	}

	list, err := updates.ListUpdates(ctx)
	if err != nil {
		t.Fatalf("ListUpdates: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("list = %+v", list)
	}
}

func TestDeleteUpdateOfRemovedAuthor(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	updates := NewUpdateService(f.store.Updates(), f.clock)

	author := f.createUser(t, "acme", "saiu@acme.test", "Saiu")
	update, err := updates.CreateUpdate(ctx, ActorFromUser(author), UpdateInput{
		Title: "Antigo", Description: "Aviso de um usuário removido.", Type: domain.UpdateTypeUpdate, Icon: "clock",
	})
	if err != nil {
		t.Fatalf("CreateUpdate: %v", err)
	}
	if err := f.store.Users().Delete(ctx, author.ID); err != nil {
		t.Fatalf("delete author: %v", err)
	}

	list, err := updates.ListUpdates(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListUpdates = %v, %v", list, err)
	}
	if list[0].CreatedByID != nil || list[0].CreatedBy != nil {
		t.Errorf("orphaned update keeps author: %+v", list[0])
	}
	admin := ActorFromUser(f.createUser(t, "acme", "root@acme.test", "Root"))
	admin.Role = domain.UserRoleAdmin
	err = updates.DeleteUpdate(ctx, admin, update.ID)
	assertCode(t, err, apperrors.CodeForbidden, http.StatusForbidden)
	if !strings.Contains(err.Error(), "developer") {
		t.Errorf("err = %v", err)
	}
}
