package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/tmnegociosdigitais/crmdesk/internal/config"
	"github.com/tmnegociosdigitais/crmdesk/internal/events"
)

type recordingSink struct {
	channels  []string
	deadlines []time.Duration
	err       error
}

func (s *recordingSink) PublishJSON(ctx context.Context, channel string, _ any) error {
	s.channels = append(s.channels, channel)
	if deadline, ok := ctx.Deadline(); ok {
		s.deadlines = append(s.deadlines, time.Until(deadline))
	}
	return s.err
}

func TestNotificationServiceWithoutRedis(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	n := NewNotificationService(dispatcher, nil, zaptest.NewLogger(t), config.NotificationConfig{EventsChannel: "crm:events"})
	n.RegisterHandlers()

	for _, eventType := range events.AllEventTypes {
		if err := dispatcher.Publish(context.Background(), events.Event{Type: eventType}); err != nil {
			t.Fatalf("publish %s: %v", eventType, err)
		}
	}
}

func TestNotificationServicePublishesWithDeadline(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sink := &recordingSink{}
	n := NewNotificationService(dispatcher, nil, zaptest.NewLogger(t), config.NotificationConfig{EventsChannel: "crm:events", PublishTimeoutMS: 200})
	n.sink = sink
	n.RegisterHandlers()

	for _, eventType := range events.AllEventTypes {
		if err := dispatcher.Publish(context.Background(), events.Event{Type: eventType, TicketID: "t1"}); err != nil {
			t.Fatalf("publish %s: %v", eventType, err)
		}
	}

	if len(sink.channels) != len(events.AllEventTypes) {
		t.Fatalf("published %d events, want %d", len(sink.channels), len(events.AllEventTypes))
	}
	for i, left := range sink.deadlines {
		if left <= 0 || left > 200*time.Millisecond {
			t.Errorf("publish %d deadline in %s", i, left)
		}
	}
	if len(sink.deadlines) != len(sink.channels) {
		t.Errorf("%d of %d publishes had no deadline", len(sink.channels)-len(sink.deadlines), len(sink.channels))
	}
}

func TestNotificationServiceReturnsPublishError(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	down := errors.New("connection refused")
	n := NewNotificationService(dispatcher, nil, zaptest.NewLogger(t), config.NotificationConfig{EventsChannel: "crm:events"})
	n.sink = &recordingSink{err: down}
	n.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated})
	if !errors.Is(err, down) {
		t.Fatalf("Publish err = %v, want %v", err, down)
	}
	if n.timeout != defaultPublishTimeout {
		t.Errorf("timeout = %s, want default %s", n.timeout, defaultPublishTimeout)
	}
}
