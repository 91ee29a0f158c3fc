package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
)

const kanbanKeyPrefix = "kanban:config:"

// KanbanConfigCache is a read-through cache of persisted kanban configs.
// Cache failures are logged and reported as misses.
type KanbanConfigCache struct {
	redis  *Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewKanbanConfigCache returns a cache over redis; a nil redis disables caching.
func NewKanbanConfigCache(redis *Redis, ttl time.Duration, logger *zap.Logger) *KanbanConfigCache {
	return &KanbanConfigCache{redis: redis, ttl: ttl, logger: logger}
}

type cachedColumn struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

type cachedConfig struct {
	ID      string         `json:"id"`
	Columns []cachedColumn `json:"columns"`
}

// Get returns the cached config of clientID, if any.
func (c *KanbanConfigCache) Get(ctx context.Context, clientID string) (*domain.KanbanConfig, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	var cached cachedConfig
	found, err := c.redis.GetJSON(ctx, kanbanKeyPrefix+clientID, &cached)
	if err != nil {
		c.logger.Warn("kanban cache read failed", zap.String("client_id", clientID), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	config := &domain.KanbanConfig{ID: cached.ID, ClientID: clientID, Columns: make([]domain.KanbanColumn, len(cached.Columns))}
	for i, column := range cached.Columns {
		config.Columns[i] = domain.KanbanColumn{ID: column.ID, ConfigID: cached.ID, Name: column.Name, Color: column.Color, Order: column.Order}
	}
	return config, true
}

// Set stores a persisted config. Synthesized defaults are never cached.
func (c *KanbanConfigCache) Set(ctx context.Context, config *domain.KanbanConfig) {
	if c == nil || c.redis == nil || config == nil || !config.Persisted() {
		return
	}
	cached := cachedConfig{ID: config.ID, Columns: make([]cachedColumn, len(config.Columns))}
	for i, column := range config.Columns {
		cached.Columns[i] = cachedColumn{ID: column.ID, Name: column.Name, Color: column.Color, Order: column.Order}
	}
	if err := c.redis.SetJSON(ctx, kanbanKeyPrefix+config.ClientID, cached, c.ttl); err != nil {
		c.logger.Warn("kanban cache write failed", zap.String("client_id", config.ClientID), zap.Error(err))
	}
}

// Invalidate drops the cached config of clientID.
func (c *KanbanConfigCache) Invalidate(ctx context.Context, clientID string) {
	if c == nil || c.redis == nil {
		return
	}
	if err := c.redis.Delete(ctx, kanbanKeyPrefix+clientID); err != nil {
		c.logger.Warn("kanban cache invalidate failed", zap.String("client_id", clientID), zap.Error(err))
	}
}
