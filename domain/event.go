package domain

import "time"

// CircleEvent is a scheduled meetup belonging to a circle.
type CircleEvent struct {
	ID          string
	CircleID    string
	Name        string
	Description string
	CreatorID   string
	Admins      []string
	Attendees   []string
	Location    Point
	StartsAt    time.Time
	CreatedAt   time.Time
}

// IsAdmin reports whether userID created or administers the event.
func (e CircleEvent) IsAdmin(userID string) bool {
	return userID == e.CreatorID || contains(e.Admins, userID)
}

// IsAttending reports whether userID has joined the event.
func (e CircleEvent) IsAttending(userID string) bool {
	return contains(e.Attendees, userID)
}

// Upcoming reports whether the event starts after now.
func (e CircleEvent) Upcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}
