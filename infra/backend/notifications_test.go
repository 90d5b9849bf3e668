package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetify/domain"
)

func newTestNotifications(t *testing.T, f *fakeBackend) *notificationService {
	t.Helper()
	srv := f.server()
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "test-token")
	t.Cleanup(func() { client.Close() })
	return NewNotificationService(client)
}

func TestNotifications_CreateAndFetchUnread(t *testing.T) {
	f := newFakeBackend()
	svc := newTestNotifications(t, f)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, domain.Notification{
		RecipientID: "u1",
		ActorID:     "u2",
		Kind:        domain.NotifReply,
		TargetID:    "post-1",
		Message:     "New reply to your post",
	}))
	require.NoError(t, svc.Create(ctx, domain.Notification{
		RecipientID: "u1",
		ActorID:     "u3",
		Kind:        domain.NotifJoinApproved,
		TargetID:    "circle-1",
	}))
	require.NoError(t, svc.Create(ctx, domain.Notification{
		RecipientID: "someone-else",
		ActorID:     "u2",
		Kind:        domain.NotifReply,
		TargetID:    "post-2",
	}))

	unread, err := svc.FetchUnread(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unread, 2)
	// Newest first.
	assert.Equal(t, domain.NotifJoinApproved, unread[0].Kind)
	assert.Equal(t, domain.NotifReply, unread[1].Kind)
	for _, n := range unread {
		assert.Equal(t, "u1", n.RecipientID)
		assert.False(t, n.Read)
	}
}

func TestNotifications_MarkReadRemovesFromUnread(t *testing.T) {
	f := newFakeBackend()
	svc := newTestNotifications(t, f)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, domain.Notification{
		RecipientID: "u1",
		ActorID:     "u2",
		Kind:        domain.NotifReply,
		TargetID:    "post-1",
	}))
	unread, err := svc.FetchUnread(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, svc.MarkRead(ctx, unread[0].ID))

	unread, err = svc.FetchUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, unread)
}
