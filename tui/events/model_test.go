package events

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"meetify/domain"
)

type stubEvents struct{}

func (stubEvents) ListUpcoming(context.Context) ([]domain.CircleEvent, error) { return nil, nil }
func (stubEvents) CreateEvent(_ context.Context, e domain.CircleEvent) (domain.CircleEvent, error) {
	e.ID = "e-new"
	return e, nil
}
func (stubEvents) Join(context.Context, string, string) error  { return nil }
func (stubEvents) Leave(context.Context, string, string) error { return nil }

var (
	oslo   = domain.Point{Lat: 59.9139, Lng: 10.7522}
	bergen = domain.Point{Lat: 60.3913, Lng: 5.3221}
)

func testEvents() []domain.CircleEvent {
	starts := time.Now().Add(time.Hour)
	return []domain.CircleEvent{
		{ID: "close", Name: "city walk", Location: domain.Point{Lat: 59.92, Lng: 10.75}, StartsAt: starts},
		{ID: "far", Name: "fjord hike", Location: bergen, StartsAt: starts},
	}
}

func TestNearbyFilter(t *testing.T) {
	m := New(stubEvents{}, "u1", oslo, 25)
	m.loading = false
	m.items = testEvents()

	if got := len(m.visible()); got != 2 {
		t.Fatalf("expected all events without filter, got %d", got)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	visible := updated.visible()
	if len(visible) != 1 || visible[0].ID != "close" {
		t.Fatalf("expected only the close event, got %#v", visible)
	}
}

func TestJoin_SkippedWhenAlreadyAttending(t *testing.T) {
	m := New(stubEvents{}, "u1", oslo, 25)
	m.loading = false
	m.items = []domain.CircleEvent{{ID: "e1", Attendees: []string{"u1"}, StartsAt: time.Now().Add(time.Hour)}}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'J'}})
	if cmd != nil {
		t.Fatal("expected no join command when already attending")
	}
}

func TestEnter_OpensEventBoard(t *testing.T) {
	m := New(stubEvents{}, "u1", oslo, 25)
	m.loading = false
	m.items = testEvents()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(OpenBoardMsg)
	if !ok {
		t.Fatalf("expected OpenBoardMsg, got %T", cmd())
	}
	if msg.Event.ID != "close" {
		t.Fatalf("expected the highlighted event, got %q", msg.Event.ID)
	}
}

func TestCreate_RejectsBadStartTime(t *testing.T) {
	m := New(stubEvents{}, "u1", oslo, 25)
	m.loading = false

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if !m.creating {
		t.Fatal("expected create form open")
	}
	m.nameInput.SetValue("picnic")
	m.startInput.SetValue("tomorrow-ish")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no create command for an unparseable start")
	}
	if !updated.creating {
		t.Fatal("expected form kept open for correction")
	}
}
