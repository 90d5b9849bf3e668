package domain

import "time"

// NotificationKind classifies what triggered a notification.
type NotificationKind string

const (
	NotifJoinRequest  NotificationKind = "join_request"
	NotifJoinApproved NotificationKind = "join_approved"
	NotifReply        NotificationKind = "reply"
	NotifEventJoin    NotificationKind = "event_join"
)

// Notification is a single inbox entry for one recipient. Delivery is
// best-effort: writes that fail after bounded retries are dropped.
type Notification struct {
	ID          string
	RecipientID string
	ActorID     string
	Kind        NotificationKind
	TargetID    string // Post, circle, or event the notification points at
	Message     string
	Read        bool
	CreatedAt   time.Time
}
