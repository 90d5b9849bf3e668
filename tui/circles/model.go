package circles

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"meetify/app"
	"meetify/domain"
	"meetify/tui/common"
)

// LoadedMsg is sent when the circle list arrives.
type LoadedMsg struct {
	Circles []domain.Circle
}

// ErrorMsg is sent when the circle list fetch fails.
type ErrorMsg struct {
	Err error
}

// OpenBoardMsg asks the root model to open a circle's board.
type OpenBoardMsg struct {
	Circle domain.Circle
}

// JoinResultMsg is sent after a join attempt.
type JoinResultMsg struct {
	CircleID string
	Pending  bool
	Err      error
}

// LeaveResultMsg is sent after a leave attempt.
type LeaveResultMsg struct {
	CircleID string
	Err      error
}

// MemberResultMsg is sent after an approve or decline attempt.
type MemberResultMsg struct {
	CircleID string
	MemberID string
	Approved bool
	Err      error
}

// CreatedMsg is sent after creating a circle.
type CreatedMsg struct {
	Circle domain.Circle
	Err    error
}

// Model is the circle list screen.
type Model struct {
	circles app.CircleService
	userID  string

	items   []domain.Circle
	cursor  int
	loading bool
	err     error
	notice  string

	creating   bool
	nameInput  textinput.Model
	newPrivate bool

	keys    common.KeyMap
	spinner spinner.Model
	width   int
	height  int
}

// New creates the circle list model.
func New(circles app.CircleService, userID string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BD5CA"))

	return Model{
		circles: circles,
		userID:  userID,
		loading: true,
		keys:    common.DefaultKeyMap(),
		spinner: s,
	}
}

// Init starts the initial list fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m Model) fetch() tea.Cmd {
	svc := m.circles
	return func() tea.Msg {
		circles, err := svc.ListCircles(context.Background())
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return LoadedMsg{Circles: circles}
	}
}

func (m Model) join(circleID string) tea.Cmd {
	svc := m.circles
	userID := m.userID
	return func() tea.Msg {
		pending, err := svc.Join(context.Background(), circleID, userID)
		return JoinResultMsg{CircleID: circleID, Pending: pending, Err: err}
	}
}

func (m Model) leave(circleID string) tea.Cmd {
	svc := m.circles
	userID := m.userID
	return func() tea.Msg {
		err := svc.Leave(context.Background(), circleID, userID)
		return LeaveResultMsg{CircleID: circleID, Err: err}
	}
}

func (m Model) resolveMember(circleID, memberID string, approve bool) tea.Cmd {
	svc := m.circles
	userID := m.userID
	return func() tea.Msg {
		var err error
		if approve {
			err = svc.Approve(context.Background(), circleID, userID, memberID)
		} else {
			err = svc.Decline(context.Background(), circleID, userID, memberID)
		}
		return MemberResultMsg{CircleID: circleID, MemberID: memberID, Approved: approve, Err: err}
	}
}

func (m Model) create(name string, private bool) tea.Cmd {
	svc := m.circles
	userID := m.userID
	return func() tea.Msg {
		circle, err := svc.CreateCircle(context.Background(), domain.Circle{
			Name:    name,
			Private: private,
			Admins:  []string{userID},
			Members: []string{userID},
		})
		return CreatedMsg{Circle: circle, Err: err}
	}
}

// Update handles messages for the circle list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LoadedMsg:
		m.items = msg.Circles
		m.loading = false
		m.err = nil
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case JoinResultMsg:
		if msg.Err != nil {
			m.notice = "join failed: " + msg.Err.Error()
			return m, nil
		}
		if msg.Pending {
			m.notice = "Join request sent, waiting for an admin."
		} else {
			m.notice = "You're in!"
		}
		return m, m.fetch()

	case LeaveResultMsg:
		if msg.Err != nil {
			m.notice = "leave failed: " + msg.Err.Error()
			return m, nil
		}
		m.notice = "Left circle."
		return m, m.fetch()

	case MemberResultMsg:
		if msg.Err != nil {
			m.notice = "member request failed: " + msg.Err.Error()
			return m, nil
		}
		if msg.Approved {
			m.notice = "Approved " + msg.MemberID
		} else {
			m.notice = "Declined " + msg.MemberID
		}
		return m, m.fetch()

	case CreatedMsg:
		if msg.Err != nil {
			m.notice = "create failed: " + msg.Err.Error()
			return m, nil
		}
		m.notice = "Circle created: " + msg.Circle.Name
		return m, m.fetch()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.creating {
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.creating {
		return m.handleCreateKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.notice = ""
		return m, m.fetch()

	case key.Matches(msg, m.keys.Select):
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !c.IsMember(m.userID) {
			m.notice = "Join the circle to see its board."
			return m, nil
		}
		return m, func() tea.Msg { return OpenBoardMsg{Circle: c} }

	case key.Matches(msg, m.keys.Join):
		c, ok := m.selected()
		if !ok || c.IsMember(m.userID) {
			return m, nil
		}
		if c.IsPending(m.userID) {
			m.notice = "Request already pending."
			return m, nil
		}
		m.notice = "joining..."
		return m, m.join(c.ID)

	case key.Matches(msg, m.keys.Leave):
		c, ok := m.selected()
		if !ok || (!c.IsMember(m.userID) && !c.IsPending(m.userID)) {
			return m, nil
		}
		m.notice = "leaving..."
		return m, m.leave(c.ID)

	case key.Matches(msg, m.keys.Approve):
		c, ok := m.selected()
		if !ok || !c.IsAdmin(m.userID) || len(c.PendingMembers) == 0 {
			return m, nil
		}
		return m, m.resolveMember(c.ID, c.PendingMembers[0], true)

	case key.Matches(msg, m.keys.Decline):
		c, ok := m.selected()
		if !ok || !c.IsAdmin(m.userID) || len(c.PendingMembers) == 0 {
			return m, nil
		}
		return m, m.resolveMember(c.ID, c.PendingMembers[0], false)

	case key.Matches(msg, m.keys.New):
		ti := textinput.New()
		ti.Placeholder = "circle name"
		ti.CharLimit = 60
		ti.Focus()
		m.creating = true
		m.newPrivate = false
		m.nameInput = ti
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleCreateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.creating = false
		return m, nil
	case "ctrl+p":
		m.newPrivate = !m.newPrivate
		return m, nil
	case "enter":
		name := m.nameInput.Value()
		m.creating = false
		if name == "" {
			return m, nil
		}
		m.notice = "creating..."
		return m, m.create(name, m.newPrivate)
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) selected() (domain.Circle, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.Circle{}, false
	}
	return m.items[m.cursor], true
}
