package circles

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"meetify/domain"
)

type stubCircles struct {
	joinPending bool
	joinErr     error
}

func (s stubCircles) ListCircles(context.Context) ([]domain.Circle, error) { return nil, nil }
func (s stubCircles) CreateCircle(_ context.Context, c domain.Circle) (domain.Circle, error) {
	c.ID = "c-new"
	return c, nil
}
func (s stubCircles) Join(context.Context, string, string) (bool, error) {
	return s.joinPending, s.joinErr
}
func (s stubCircles) Leave(context.Context, string, string) error           { return nil }
func (s stubCircles) Approve(context.Context, string, string, string) error { return nil }
func (s stubCircles) Decline(context.Context, string, string, string) error { return nil }

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestEnter_RequiresMembership(t *testing.T) {
	m := New(stubCircles{}, "u1")
	m.loading = false
	m.items = []domain.Circle{{ID: "c1", Name: "strangers", Admins: []string{"other"}}}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no board navigation for a non-member")
	}
	if updated.notice == "" {
		t.Fatal("expected a notice explaining why")
	}
}

func TestEnter_OpensBoardForMember(t *testing.T) {
	m := New(stubCircles{}, "u1")
	m.loading = false
	m.items = []domain.Circle{{ID: "c1", Name: "runners", Members: []string{"u1"}}}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(OpenBoardMsg)
	if !ok {
		t.Fatalf("expected OpenBoardMsg, got %T", cmd())
	}
	if msg.Circle.ID != "c1" {
		t.Fatalf("expected circle c1, got %q", msg.Circle.ID)
	}
}

func TestJoin_PendingResultSetsNotice(t *testing.T) {
	m := New(stubCircles{joinPending: true}, "u1")
	m.loading = false
	m.items = []domain.Circle{{ID: "c1", Name: "book club", Private: true, Admins: []string{"a1"}}}

	m, cmd := m.Update(keyMsg('J'))
	if cmd == nil {
		t.Fatal("expected join command")
	}
	updated, _ := m.Update(cmd())
	if updated.notice != "Join request sent, waiting for an admin." {
		t.Fatalf("unexpected notice %q", updated.notice)
	}
}

func TestJoin_AlreadyPendingDoesNotRepeat(t *testing.T) {
	m := New(stubCircles{}, "u1")
	m.loading = false
	m.items = []domain.Circle{{ID: "c1", Name: "book club", PendingMembers: []string{"u1"}, Admins: []string{"a1"}}}

	_, cmd := m.Update(keyMsg('J'))
	if cmd != nil {
		t.Fatal("expected no second join request while pending")
	}
}

func TestApprove_AdminOnlyKeyGate(t *testing.T) {
	m := New(stubCircles{}, "u1")
	m.loading = false
	m.items = []domain.Circle{{ID: "c1", Admins: []string{"someone-else"}, PendingMembers: []string{"p1"}}}

	_, cmd := m.Update(keyMsg('a'))
	if cmd != nil {
		t.Fatal("expected no approve command for a non-admin")
	}
}

func TestJoinFailure_SurfacesError(t *testing.T) {
	m := New(stubCircles{joinErr: errors.New("backend down")}, "u1")
	m.loading = false
	m.items = []domain.Circle{{ID: "c1", Name: "book club", Admins: []string{"a1"}}}

	m, cmd := m.Update(keyMsg('J'))
	updated, _ := m.Update(cmd())
	if updated.notice != "join failed: backend down" {
		t.Fatalf("unexpected notice %q", updated.notice)
	}
}
