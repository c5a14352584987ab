package worker

import (
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
)

// StartNotificationWorker subscribes the notifier to ticket events so email
// delivery runs outside the request handlers.
func StartNotificationWorker(dispatcher events.Dispatcher, notifier *notify.Notifier) {
	if dispatcher == nil || notifier == nil {
		return
	}
	notifier.RegisterHandlers(dispatcher)
}
