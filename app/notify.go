package app

import (
	"context"

	"meetify/domain"
)

// Notifier queues a notification for delivery. Fire-and-forget: the
// call never blocks on the network and never reports failure; a
// notification that cannot be delivered is logged and dropped.
type Notifier interface {
	Notify(n domain.Notification)
}

// NotificationService reads the caller's own inbox.
type NotificationService interface {
	// FetchUnread returns unread notifications, newest first.
	FetchUnread(ctx context.Context, userID string) ([]domain.Notification, error)

	// MarkRead flags a notification as seen.
	MarkRead(ctx context.Context, id string) error
}

// NoopNotifier discards every notification. Used in tests and wherever
// dispatch is not wired.
type NoopNotifier struct{}

func (NoopNotifier) Notify(domain.Notification) {}

var _ Notifier = NoopNotifier{}
