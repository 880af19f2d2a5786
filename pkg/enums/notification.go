package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypePayoutCompleted NotificationType = "payout_completed"
	NotificationTypePayoutFailed    NotificationType = "payout_failed"
	NotificationTypePayoutUpdate    NotificationType = "payout_update"
	NotificationTypeOrderAlert      NotificationType = "order_alert"
)

var validNotificationTypes = []NotificationType{
	NotificationTypePayoutCompleted,
	NotificationTypePayoutFailed,
	NotificationTypePayoutUpdate,
	NotificationTypeOrderAlert,
}

// RecipientRole scopes who a notification is addressed to.
type RecipientRole string

const (
	RecipientRoleSeller RecipientRole = "seller"
	RecipientRoleBuyer  RecipientRole = "buyer"
)

// IsValid checks whether the role is a known recipient scope.
func (r RecipientRole) IsValid() bool {
	return r == RecipientRoleSeller || r == RecipientRoleBuyer
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
