package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetify/domain"
)

func newTestEvents(t *testing.T, f *fakeBackend) (*eventService, *captureNotifier) {
	t.Helper()
	srv := f.server()
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "test-token")
	t.Cleanup(func() { client.Close() })
	notifier := &captureNotifier{}
	return NewEventService(client, notifier, testLogger()), notifier
}

func eventFixture(name, creatorID string, startsAt time.Time) map[string]any {
	return map[string]any{
		"circleId":  "c1",
		"name":      name,
		"creatorId": creatorID,
		"admins":    []string{creatorID},
		"attendees": []string{creatorID},
		"startsAt":  startsAt.UTC().Format(time.RFC3339Nano),
	}
}

func TestListUpcoming_DropsPastEvents(t *testing.T) {
	f := newFakeBackend()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f.seed(collEvents, eventFixture("yesterday", "u1", base.Add(-24*time.Hour)))
	f.seed(collEvents, eventFixture("next week", "u1", base.Add(7*24*time.Hour)))
	f.seed(collEvents, eventFixture("tomorrow", "u1", base.Add(24*time.Hour)))

	svc, _ := newTestEvents(t, f)
	svc.now = func() time.Time { return base }

	events, err := svc.ListUpcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Soonest first.
	assert.Equal(t, "tomorrow", events[0].Name)
	assert.Equal(t, "next week", events[1].Name)
}

func TestCreateEvent_Validation(t *testing.T) {
	f := newFakeBackend()
	svc, _ := newTestEvents(t, f)
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, domain.CircleEvent{StartsAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.CreateEvent(ctx, domain.CircleEvent{Name: "picnic"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	created, err := svc.CreateEvent(ctx, domain.CircleEvent{
		CircleID:  "c1",
		Name:      "picnic",
		CreatorID: "u1",
		StartsAt:  time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestJoinEvent_NotifiesCreatorAndAdminsOnce(t *testing.T) {
	f := newFakeBackend()
	fixture := eventFixture("picnic", "creator", time.Now().Add(time.Hour))
	// Creator also listed as admin; they must not be notified twice.
	fixture["admins"] = []string{"creator", "a2"}
	id := f.seed(collEvents, fixture)

	svc, notifier := newTestEvents(t, f)
	require.NoError(t, svc.Join(context.Background(), id, "u2"))

	doc, _ := f.get(collEvents, id)
	assert.Contains(t, toStrings(doc["attendees"]), "u2")

	sent := notifier.all()
	require.Len(t, sent, 2)
	recipients := []string{sent[0].RecipientID, sent[1].RecipientID}
	assert.ElementsMatch(t, []string{"creator", "a2"}, recipients)
	for _, n := range sent {
		assert.Equal(t, domain.NotifEventJoin, n.Kind)
	}
}

func TestJoinEvent_AlreadyAttendingIsNoop(t *testing.T) {
	f := newFakeBackend()
	fixture := eventFixture("picnic", "creator", time.Now().Add(time.Hour))
	fixture["attendees"] = []string{"creator", "u2"}
	id := f.seed(collEvents, fixture)

	svc, notifier := newTestEvents(t, f)
	require.NoError(t, svc.Join(context.Background(), id, "u2"))
	assert.Empty(t, notifier.all())
}

func TestJoinEvent_SelfJoinDoesNotSelfNotify(t *testing.T) {
	f := newFakeBackend()
	fixture := eventFixture("picnic", "creator", time.Now().Add(time.Hour))
	fixture["attendees"] = []string{}
	id := f.seed(collEvents, fixture)

	svc, notifier := newTestEvents(t, f)
	require.NoError(t, svc.Join(context.Background(), id, "creator"))
	assert.Empty(t, notifier.all())
}

func TestLeaveEvent(t *testing.T) {
	f := newFakeBackend()
	fixture := eventFixture("picnic", "creator", time.Now().Add(time.Hour))
	fixture["attendees"] = []string{"creator", "u2"}
	id := f.seed(collEvents, fixture)

	svc, _ := newTestEvents(t, f)
	require.NoError(t, svc.Leave(context.Background(), id, "u2"))

	doc, _ := f.get(collEvents, id)
	assert.Equal(t, []string{"creator"}, toStrings(doc["attendees"]))
}
