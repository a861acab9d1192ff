package worker

import (
	"github.com/spec-kit/grievance-service/internal/service"
)

// StartNotificationWorker registers complaint notification handlers on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
