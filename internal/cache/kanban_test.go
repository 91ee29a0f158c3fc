package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewKanbanConfigCache(New(nil, zaptest.NewLogger(t)), time.Minute, zaptest.NewLogger(t))

	c.Set(ctx, &domain.KanbanConfig{ID: "cfg", ClientID: "acme", Columns: domain.DefaultKanbanColumns()})
	if _, ok := c.Get(ctx, "acme"); ok {
		t.Fatal("disabled cache returned a hit")
	}
	c.Invalidate(ctx, "acme")

	var nilCache *KanbanConfigCache
	if _, ok := nilCache.Get(ctx, "acme"); ok {
		t.Fatal("nil cache returned a hit")
	}
}
