package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/cache"
	"github.com/tmnegociosdigitais/crmdesk/internal/config"
	"github.com/tmnegociosdigitais/crmdesk/internal/events"
)

const defaultPublishTimeout = 500 * time.Millisecond

// eventSink is the pub/sub side of the redis cache.
type eventSink interface {
	PublishJSON(ctx context.Context, channel string, value any) error
}

// NotificationService fans domain events out to the log and, when redis is
// configured, to a pub/sub channel. Publish failures are returned to the
// dispatcher and logged once by the caller that published the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	sink       eventSink
	logger     *zap.Logger
	channel    string
	timeout    time.Duration
}

// NewNotificationService creates the service. redis may be nil.
func NewNotificationService(dispatcher events.Dispatcher, redis *cache.Redis, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	n := &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		channel:    cfg.EventsChannel,
		timeout:    time.Duration(cfg.PublishTimeoutMS) * time.Millisecond,
	}
	if redis != nil {
		n.sink = redis
	}
	if n.timeout <= 0 {
		n.timeout = defaultPublishTimeout
	}
	return n
}

// RegisterHandlers subscribes to every event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))

	if n.sink == nil || n.channel == "" {
		return nil
	}
	// The request that published the event waits on this call.
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.sink.PublishJSON(ctx, n.channel, event); err != nil {
		return fmt.Errorf("publish to %s: %w", n.channel, err)
	}
	return nil
}
