package events

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"meetify/app"
	"meetify/domain"
	"meetify/tui/common"
)

const startLayout = "2006-01-02 15:04"

// LoadedMsg is sent when the upcoming event list arrives.
type LoadedMsg struct {
	Events []domain.CircleEvent
}

// ErrorMsg is sent when the event list fetch fails.
type ErrorMsg struct {
	Err error
}

// OpenBoardMsg asks the root model to open an event's board.
type OpenBoardMsg struct {
	Event domain.CircleEvent
}

// JoinResultMsg is sent after a join attempt.
type JoinResultMsg struct {
	EventID string
	Err     error
}

// LeaveResultMsg is sent after a leave attempt.
type LeaveResultMsg struct {
	EventID string
	Err     error
}

// CreatedMsg is sent after creating an event.
type CreatedMsg struct {
	Event domain.CircleEvent
	Err   error
}

type createField int

const (
	fieldName createField = iota
	fieldStart
)

// Model is the upcoming events screen.
type Model struct {
	events app.EventService
	userID string

	home     domain.Point
	radiusKm float64

	items      []domain.CircleEvent
	cursor     int
	loading    bool
	err        error
	notice     string
	nearbyOnly bool

	creating   bool
	field      createField
	nameInput  textinput.Model
	startInput textinput.Model

	keys    common.KeyMap
	spinner spinner.Model
	width   int
	height  int
}

// New creates the event list model. home and radiusKm drive the
// nearby filter.
func New(events app.EventService, userID string, home domain.Point, radiusKm float64) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BD5CA"))

	return Model{
		events:   events,
		userID:   userID,
		home:     home,
		radiusKm: radiusKm,
		loading:  true,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
	}
}

// Init starts the initial list fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m Model) fetch() tea.Cmd {
	svc := m.events
	return func() tea.Msg {
		events, err := svc.ListUpcoming(context.Background())
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return LoadedMsg{Events: events}
	}
}

func (m Model) join(eventID string) tea.Cmd {
	svc := m.events
	userID := m.userID
	return func() tea.Msg {
		return JoinResultMsg{EventID: eventID, Err: svc.Join(context.Background(), eventID, userID)}
	}
}

func (m Model) leave(eventID string) tea.Cmd {
	svc := m.events
	userID := m.userID
	return func() tea.Msg {
		return LeaveResultMsg{EventID: eventID, Err: svc.Leave(context.Background(), eventID, userID)}
	}
}

func (m Model) create(name string, startsAt time.Time) tea.Cmd {
	svc := m.events
	userID := m.userID
	home := m.home
	return func() tea.Msg {
		event, err := svc.CreateEvent(context.Background(), domain.CircleEvent{
			Name:      name,
			CreatorID: userID,
			Admins:    []string{userID},
			Attendees: []string{userID},
			Location:  home,
			StartsAt:  startsAt,
		})
		return CreatedMsg{Event: event, Err: err}
	}
}

// visible applies the nearby filter to the loaded events.
func (m Model) visible() []domain.CircleEvent {
	if !m.nearbyOnly {
		return m.items
	}
	return lo.Filter(m.items, func(e domain.CircleEvent, _ int) bool {
		return domain.DistanceKm(m.home, e.Location) <= m.radiusKm
	})
}

// Update handles messages for the event list.
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
		m.items = msg.Events
		m.loading = false
		m.err = nil
		if m.cursor >= len(m.visible()) {
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
		m.notice = "See you there!"
		return m, m.fetch()

	case LeaveResultMsg:
		if msg.Err != nil {
			m.notice = "leave failed: " + msg.Err.Error()
			return m, nil
		}
		m.notice = "Left event."
		return m, m.fetch()

	case CreatedMsg:
		if msg.Err != nil {
			m.notice = "create failed: " + msg.Err.Error()
			return m, nil
		}
		m.notice = "Event created: " + msg.Event.Name
		return m, m.fetch()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.creating {
		return m.updateCreateInputs(msg)
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
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.notice = ""
		return m, m.fetch()

	case key.Matches(msg, m.keys.Nearby):
		m.nearbyOnly = !m.nearbyOnly
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Select):
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return OpenBoardMsg{Event: e} }

	case key.Matches(msg, m.keys.Join):
		e, ok := m.selected()
		if !ok || e.IsAttending(m.userID) {
			return m, nil
		}
		m.notice = "joining..."
		return m, m.join(e.ID)

	case key.Matches(msg, m.keys.Leave):
		e, ok := m.selected()
		if !ok || !e.IsAttending(m.userID) {
			return m, nil
		}
		m.notice = "leaving..."
		return m, m.leave(e.ID)

	case key.Matches(msg, m.keys.New):
		name := textinput.New()
		name.Placeholder = "event name"
		name.CharLimit = 60
		name.Focus()
		start := textinput.New()
		start.Placeholder = startLayout
		start.CharLimit = len(startLayout)
		m.creating = true
		m.field = fieldName
		m.nameInput = name
		m.startInput = start
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleCreateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.creating = false
		return m, nil
	case "tab":
		if m.field == fieldName {
			m.field = fieldStart
			m.nameInput.Blur()
			m.startInput.Focus()
		} else {
			m.field = fieldName
			m.startInput.Blur()
			m.nameInput.Focus()
		}
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		startsAt, err := time.ParseInLocation(startLayout, strings.TrimSpace(m.startInput.Value()), time.Local)
		if name == "" || err != nil {
			m.notice = "Need a name and a start like " + startLayout
			return m, nil
		}
		m.creating = false
		m.notice = "creating..."
		return m, m.create(name, startsAt)
	}
	return m.updateCreateInputs(msg)
}

func (m Model) updateCreateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.field == fieldName {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.startInput, cmd = m.startInput.Update(msg)
	}
	return m, cmd
}

func (m Model) selected() (domain.CircleEvent, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return domain.CircleEvent{}, false
	}
	return visible[m.cursor], true
}
