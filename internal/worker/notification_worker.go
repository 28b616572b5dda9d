package worker

import (
	"github.com/spec-kit/helpdesk-api/internal/events"
	"github.com/spec-kit/helpdesk-api/internal/service"
)

// StartNotificationWorker subscribes the notification service to the event
// stream. Delivery happens inline with dispatch; failures never reach the
// publishing operation.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService) {
	if dispatcher == nil || notifications == nil {
		return
	}
	notifications.Register(dispatcher)
}
