package app

import (
	"context"

	"meetify/domain"
)

// EventService manages circle events and attendance.
type EventService interface {
	// ListUpcoming returns events that have not started yet,
	// soonest first.
	ListUpcoming(ctx context.Context) ([]domain.CircleEvent, error)

	// CreateEvent stores a new event with the caller as creator.
	CreateEvent(ctx context.Context, event domain.CircleEvent) (domain.CircleEvent, error)

	// Join adds userID to the attendee list.
	Join(ctx context.Context, eventID, userID string) error

	// Leave removes userID from the attendee list.
	Leave(ctx context.Context, eventID, userID string) error
}
