package worker

import (
	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/events"
	"github.com/tmnegociosdigitais/crmdesk/internal/service"
)

// StartNotificationWorker subscribes the notification fan-out to every
// domain event. Handlers run synchronously after each commit.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	logger.Info("notification worker started", zap.Int("event_types", len(events.AllEventTypes)))
}
