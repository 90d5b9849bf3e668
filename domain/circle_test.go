package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircleMembership(t *testing.T) {
	c := Circle{
		Admins:         []string{"a1"},
		Members:        []string{"m1"},
		PendingMembers: []string{"p1"},
	}

	assert.True(t, c.IsAdmin("a1"))
	assert.True(t, c.IsMember("m1"))
	assert.True(t, c.IsMember("a1"), "admins count as members")
	assert.True(t, c.IsPending("p1"))

	assert.False(t, c.IsMember("p1"), "pending is not membership")
	assert.False(t, c.IsAdmin("m1"))
	assert.False(t, c.IsMember("stranger"))
}

func TestEventUpcoming(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e := CircleEvent{StartsAt: now.Add(time.Hour)}
	assert.True(t, e.Upcoming(now))
	assert.False(t, e.Upcoming(now.Add(2*time.Hour)))
}

func TestEventAttendance(t *testing.T) {
	e := CircleEvent{CreatorID: "u1", Admins: []string{"u1", "u2"}, Attendees: []string{"u1"}}
	assert.True(t, e.IsAdmin("u2"))
	assert.True(t, e.IsAttending("u1"))
	assert.False(t, e.IsAttending("u2"))
}
