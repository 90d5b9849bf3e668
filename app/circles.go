package app

import (
	"context"

	"meetify/domain"
)

// CircleService manages circles and their membership.
type CircleService interface {
	// ListCircles returns all circles, alphabetically by name.
	ListCircles(ctx context.Context) ([]domain.Circle, error)

	// CreateCircle stores a new circle with the caller as sole admin.
	CreateCircle(ctx context.Context, circle domain.Circle) (domain.Circle, error)

	// Join adds userID to the circle. Public circles admit
	// immediately; private circles queue a join request and return
	// pending=true.
	Join(ctx context.Context, circleID, userID string) (pending bool, err error)

	// Leave removes userID from members and pending requests.
	Leave(ctx context.Context, circleID, userID string) error

	// Approve moves memberID from pending to members. Admin only.
	Approve(ctx context.Context, circleID, adminID, memberID string) error

	// Decline drops memberID's join request. Admin only.
	Decline(ctx context.Context, circleID, adminID, memberID string) error
}
