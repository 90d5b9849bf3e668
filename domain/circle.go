package domain

import "time"

// Circle is an interest group users join and post to.
type Circle struct {
	ID             string
	Name           string
	Description    string
	Private        bool
	Location       Point
	Admins         []string
	Members        []string
	PendingMembers []string
	CreatedAt      time.Time
}

// IsAdmin reports whether userID administers the circle.
func (c Circle) IsAdmin(userID string) bool {
	return contains(c.Admins, userID)
}

// IsMember reports whether userID belongs to the circle.
// Admins are members too.
func (c Circle) IsMember(userID string) bool {
	return contains(c.Members, userID) || c.IsAdmin(userID)
}

// IsPending reports whether userID has an open join request.
func (c Circle) IsPending(userID string) bool {
	return contains(c.PendingMembers, userID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
