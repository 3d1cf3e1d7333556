package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeReview  NotificationType = "review"
	NotificationTypeSystem  NotificationType = "system"
	NotificationTypeBilling NotificationType = "billing"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeMessage,
	NotificationTypeReview,
	NotificationTypeSystem,
	NotificationTypeBilling,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
