package backend

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"meetify/app"
	"meetify/domain"
)

// circleService implements app.CircleService against the circles
// collection.
type circleService struct {
	client *Client
	notify app.Notifier
	log    *logrus.Logger
}

// NewCircleService creates a CircleService.
func NewCircleService(client *Client, notifier app.Notifier, log *logrus.Logger) *circleService {
	return &circleService{client: client, notify: notifier, log: log}
}

type circlePage struct {
	Documents []circleDoc `json:"documents"`
}

func (s *circleService) ListCircles(ctx context.Context) ([]domain.Circle, error) {
	var page circlePage
	err := s.client.queryDocs(ctx, collCircles, docQuery{orderBy: "name"}, &page)
	if err != nil {
		return nil, fmt.Errorf("listing circles: %w", err)
	}
	circles := make([]domain.Circle, 0, len(page.Documents))
	for _, d := range page.Documents {
		circles = append(circles, docToCircle(d))
	}
	return circles, nil
}

func (s *circleService) CreateCircle(ctx context.Context, circle domain.Circle) (domain.Circle, error) {
	if circle.Name == "" {
		return domain.Circle{}, fmt.Errorf("%w: circle needs a name", domain.ErrValidation)
	}
	var created circleDoc
	if err := s.client.createDoc(ctx, collCircles, circleToDoc(circle), &created); err != nil {
		return domain.Circle{}, fmt.Errorf("creating circle: %w", err)
	}
	return docToCircle(created), nil
}

func (s *circleService) Join(ctx context.Context, circleID, userID string) (bool, error) {
	circle, err := s.getCircle(ctx, circleID)
	if err != nil {
		return false, err
	}
	if circle.IsMember(userID) {
		return false, nil
	}
	if circle.IsPending(userID) {
		return true, nil
	}

	if circle.Private {
		err := s.client.patchDoc(ctx, collCircles, circleID, patch{
			ArrayUnion: map[string][]string{"pendingMembers": {userID}},
		})
		if err != nil {
			return false, fmt.Errorf("requesting to join circle: %w", err)
		}
		for _, admin := range circle.Admins {
			s.notify.Notify(domain.Notification{
				RecipientID: admin,
				ActorID:     userID,
				Kind:        domain.NotifJoinRequest,
				TargetID:    circleID,
				Message:     fmt.Sprintf("Join request for %s", circle.Name),
			})
		}
		return true, nil
	}

	err = s.client.patchDoc(ctx, collCircles, circleID, patch{
		ArrayUnion: map[string][]string{"members": {userID}},
	})
	if err != nil {
		return false, fmt.Errorf("joining circle: %w", err)
	}
	return false, nil
}

func (s *circleService) Leave(ctx context.Context, circleID, userID string) error {
	err := s.client.patchDoc(ctx, collCircles, circleID, patch{
		ArrayRemove: map[string][]string{
			"members":        {userID},
			"pendingMembers": {userID},
		},
	})
	if err != nil {
		return fmt.Errorf("leaving circle: %w", err)
	}
	return nil
}

func (s *circleService) Approve(ctx context.Context, circleID, adminID, memberID string) error {
	circle, err := s.getCircle(ctx, circleID)
	if err != nil {
		return err
	}
	if !circle.IsAdmin(adminID) {
		return fmt.Errorf("%w: only admins can approve members", domain.ErrPermission)
	}
	if !circle.IsPending(memberID) {
		return fmt.Errorf("%w: no pending request for user", domain.ErrNotFound)
	}

	err = s.client.patchDoc(ctx, collCircles, circleID, patch{
		ArrayUnion:  map[string][]string{"members": {memberID}},
		ArrayRemove: map[string][]string{"pendingMembers": {memberID}},
	})
	if err != nil {
		return fmt.Errorf("approving member: %w", err)
	}

	s.notify.Notify(domain.Notification{
		RecipientID: memberID,
		ActorID:     adminID,
		Kind:        domain.NotifJoinApproved,
		TargetID:    circleID,
		Message:     fmt.Sprintf("You're in: %s", circle.Name),
	})
	return nil
}

func (s *circleService) Decline(ctx context.Context, circleID, adminID, memberID string) error {
	circle, err := s.getCircle(ctx, circleID)
	if err != nil {
		return err
	}
	if !circle.IsAdmin(adminID) {
		return fmt.Errorf("%w: only admins can decline members", domain.ErrPermission)
	}
	err = s.client.patchDoc(ctx, collCircles, circleID, patch{
		ArrayRemove: map[string][]string{"pendingMembers": {memberID}},
	})
	if err != nil {
		return fmt.Errorf("declining member: %w", err)
	}
	return nil
}

func (s *circleService) getCircle(ctx context.Context, circleID string) (domain.Circle, error) {
	var doc circleDoc
	if err := s.client.getDoc(ctx, collCircles, circleID, &doc); err != nil {
		return domain.Circle{}, fmt.Errorf("fetching circle: %w", err)
	}
	return docToCircle(doc), nil
}
