package backend

import (
	"context"
	"fmt"

	"meetify/domain"
)

// notificationService implements app.NotificationService and serves as
// the write target for the best-effort dispatcher.
type notificationService struct {
	client *Client
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(client *Client) *notificationService {
	return &notificationService{client: client}
}

// Create stores one notification document. Called by the dispatcher
// worker, never directly from request paths.
func (s *notificationService) Create(ctx context.Context, n domain.Notification) error {
	var created notificationDoc
	if err := s.client.createDoc(ctx, collNotifications, notificationToDoc(n), &created); err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

type notificationPage struct {
	Documents []notificationDoc `json:"documents"`
}

func (s *notificationService) FetchUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	var page notificationPage
	err := s.client.queryDocs(ctx, collNotifications, docQuery{
		eq:         map[string]string{"recipientId": userID, "read": "false"},
		orderBy:    "createdAt",
		descending: true,
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}
	out := make([]domain.Notification, 0, len(page.Documents))
	for _, d := range page.Documents {
		out = append(out, docToNotification(d))
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	err := s.client.patchDoc(ctx, collNotifications, id, patch{
		Set: map[string]any{"read": true},
	})
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}
