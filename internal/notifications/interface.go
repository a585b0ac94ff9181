package notifications

import "github.com/bvofrades/incident-bot/internal/models"

// Notifier delivers an assembled incident notification.
type Notifier interface {
	Send(payload models.NotificationPayload) models.DeliveryResult
}
