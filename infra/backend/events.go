package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"meetify/app"
	"meetify/domain"
)

// eventService implements app.EventService against the events
// collection.
type eventService struct {
	client *Client
	notify app.Notifier
	log    *logrus.Logger
	now    func() time.Time
}

// NewEventService creates an EventService.
func NewEventService(client *Client, notifier app.Notifier, log *logrus.Logger) *eventService {
	return &eventService{client: client, notify: notifier, log: log, now: time.Now}
}

type eventPage struct {
	Documents []eventDoc `json:"documents"`
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]domain.CircleEvent, error) {
	var page eventPage
	err := s.client.queryDocs(ctx, collEvents, docQuery{orderBy: "startsAt"}, &page)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	// Same query-layer limitation as the board: no range filter on
	// top of the ordering, so past events are dropped client-side.
	now := s.now()
	events := make([]domain.CircleEvent, 0, len(page.Documents))
	for _, d := range page.Documents {
		events = append(events, docToEvent(d))
	}
	return lo.Filter(events, func(e domain.CircleEvent, _ int) bool {
		return e.Upcoming(now)
	}), nil
}

func (s *eventService) CreateEvent(ctx context.Context, event domain.CircleEvent) (domain.CircleEvent, error) {
	if event.Name == "" || event.StartsAt.IsZero() {
		return domain.CircleEvent{}, fmt.Errorf("%w: event needs a name and a start time", domain.ErrValidation)
	}
	var created eventDoc
	if err := s.client.createDoc(ctx, collEvents, eventToDoc(event), &created); err != nil {
		return domain.CircleEvent{}, fmt.Errorf("creating event: %w", err)
	}
	return docToEvent(created), nil
}

func (s *eventService) Join(ctx context.Context, eventID, userID string) error {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.IsAttending(userID) {
		return nil
	}

	err = s.client.patchDoc(ctx, collEvents, eventID, patch{
		ArrayUnion: map[string][]string{"attendees": {userID}},
	})
	if err != nil {
		return fmt.Errorf("joining event: %w", err)
	}

	// Creator and admins hear about new attendees.
	recipients := append([]string{event.CreatorID}, event.Admins...)
	for _, recipient := range lo.Uniq(recipients) {
		if recipient == userID {
			continue
		}
		s.notify.Notify(domain.Notification{
			RecipientID: recipient,
			ActorID:     userID,
			Kind:        domain.NotifEventJoin,
			TargetID:    eventID,
			Message:     fmt.Sprintf("New attendee for %s", event.Name),
		})
	}
	return nil
}

func (s *eventService) Leave(ctx context.Context, eventID, userID string) error {
	err := s.client.patchDoc(ctx, collEvents, eventID, patch{
		ArrayRemove: map[string][]string{"attendees": {userID}},
	})
	if err != nil {
		return fmt.Errorf("leaving event: %w", err)
	}
	return nil
}

func (s *eventService) getEvent(ctx context.Context, eventID string) (domain.CircleEvent, error) {
	var doc eventDoc
	if err := s.client.getDoc(ctx, collEvents, eventID, &doc); err != nil {
		return domain.CircleEvent{}, fmt.Errorf("fetching event: %w", err)
	}
	return docToEvent(doc), nil
}
