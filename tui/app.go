package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"meetify/app"
	"meetify/domain"
	"meetify/tui/board"
	"meetify/tui/circles"
	"meetify/tui/common"
	"meetify/tui/compose"
	"meetify/tui/events"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Board         app.BoardService
	Circles       app.CircleService
	Events        app.EventService
	Notifications app.NotificationService
	UserID        string
	Username      string
	Home          domain.Point
	RadiusKm      float64
}

type activeView int

const (
	circlesView activeView = iota
	eventsView
	boardView
	composeView
)

// unreadMsg carries the notification inbox for the badge.
type unreadMsg struct {
	Notifications []domain.Notification
	Err           error
}

type markedReadMsg struct{}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps     Deps
	active   activeView
	lastList activeView // which list screen the board returns to

	circles circles.Model
	events  events.Model
	board   board.Model
	compose compose.Model

	keys   common.KeyMap
	status string
	unread []domain.Notification
	width  int
	height int
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		deps:     deps,
		active:   circlesView,
		lastList: circlesView,
		circles:  circles.New(deps.Circles, deps.UserID),
		events:   events.New(deps.Events, deps.UserID, deps.Home, deps.RadiusKm),
		keys:     common.DefaultKeyMap(),
	}
}

// Init starts the circle list and the notification badge fetch.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.circles.Init(), a.fetchUnread())
}

func (a App) fetchUnread() tea.Cmd {
	svc := a.deps.Notifications
	userID := a.deps.UserID
	return func() tea.Msg {
		unread, err := svc.FetchUnread(context.Background(), userID)
		return unreadMsg{Notifications: unread, Err: err}
	}
}

func (a App) markAllRead() tea.Cmd {
	svc := a.deps.Notifications
	unread := append([]domain.Notification{}, a.unread...)
	return func() tea.Msg {
		// Best effort: a notification that fails to mark stays unread
		// for the next fetch.
		for _, n := range unread {
			_ = svc.MarkRead(context.Background(), n.ID)
		}
		return markedReadMsg{}
	}
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Remembered so a board opened later starts at the right size.
		a.width, a.height = msg.Width, msg.Height

	case tea.KeyMsg:
		onList := a.active == circlesView || a.active == eventsView
		if onList && key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if onList && key.Matches(msg, a.keys.Circles) && a.active != circlesView {
			a.active = circlesView
			a.lastList = circlesView
			return a, a.circles.Init()
		}
		if onList && key.Matches(msg, a.keys.Events) && a.active != eventsView {
			a.active = eventsView
			a.lastList = eventsView
			return a, a.events.Init()
		}
		if onList && key.Matches(msg, a.keys.Notifications) && len(a.unread) > 0 {
			a.status = "Marking notifications read..."
			return a, a.markAllRead()
		}

	case unreadMsg:
		if msg.Err == nil {
			a.unread = msg.Notifications
		}
		return a, nil

	case markedReadMsg:
		a.status = ""
		return a, a.fetchUnread()

	case circles.OpenBoardMsg:
		a.active = boardView
		a.lastList = circlesView
		a.status = ""
		a.board = board.New(a.deps.Board, domain.CircleScope(msg.Circle.ID),
			a.deps.UserID, a.deps.Username, msg.Circle.Name)
		a.board, _ = a.board.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.board.Init()

	case events.OpenBoardMsg:
		a.active = boardView
		a.lastList = eventsView
		a.status = ""
		a.board = board.New(a.deps.Board, domain.EventScope(msg.Event.ID),
			a.deps.UserID, a.deps.Username, msg.Event.Name)
		a.board, _ = a.board.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.board.Init()

	case board.CloseMsg:
		a.active = a.lastList
		a.status = ""
		if a.active == eventsView {
			return a, a.events.Init()
		}
		return a, a.circles.Init()

	case board.ComposeMsg:
		a.active = composeView
		a.status = ""
		a.compose = compose.New(msg.Scope, msg.Parent, msg.ReplyTo)
		return a, a.compose.Init()

	case compose.DoneMsg:
		return a.finishCompose(msg)

	case board.CreateResultMsg:
		a.board, _ = a.board.Update(msg)
		if msg.Err != nil {
			a.status = "Error: " + msg.Err.Error()
		} else {
			a.status = "Posted!"
		}
		return a, nil
	}

	// Delegate to the active sub-model.
	var cmd tea.Cmd
	switch a.active {
	case circlesView:
		a.circles, cmd = a.circles.Update(msg)
	case eventsView:
		a.events, cmd = a.events.Update(msg)
	case boardView:
		a.board, cmd = a.board.Update(msg)
	case composeView:
		a.compose, cmd = a.compose.Update(msg)
		// The board keeps loading and ticking behind the composer.
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			var bcmd tea.Cmd
			a.board, bcmd = a.board.Update(msg)
			cmd = tea.Batch(cmd, bcmd)
		}
	}
	return a, cmd
}

// finishCompose turns a composer result into an optimistic entry plus
// the backend call.
func (a App) finishCompose(msg compose.DoneMsg) (tea.Model, tea.Cmd) {
	a.active = boardView

	if msg.Text == "" && msg.ImagePath == "" {
		a.status = "Cancelled."
		return a, nil
	}

	draft, err := buildDraft(msg, a.deps.UserID)
	if err != nil {
		a.status = "Error: " + err.Error()
		return a, nil
	}

	localID := board.LocalID()
	optimistic := draft
	optimistic.ID = localID
	optimistic.Author = a.deps.Username
	optimistic.IsOwn = true
	optimistic.CreatedAt = time.Now()
	if msg.ImagePath != "" {
		optimistic.ImageURL = msg.ImagePath
	}
	a.board, _ = a.board.Update(board.AddOptimisticPostMsg{Post: optimistic})
	a.status = "Posting..."

	svc := a.deps.Board
	imagePath := msg.ImagePath
	return a, func() tea.Msg {
		if imagePath != "" {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return board.CreateResultMsg{LocalID: localID, Err: fmt.Errorf("reading image: %w", err)}
			}
			url, err := svc.UploadImage(context.Background(), filepath.Base(imagePath), data)
			if err != nil {
				return board.CreateResultMsg{LocalID: localID, Err: err}
			}
			draft.ImageURL = url
		}
		created, err := svc.CreatePost(context.Background(), draft)
		created.IsOwn = true
		return board.CreateResultMsg{LocalID: localID, Post: created, Err: err}
	}
}

func buildDraft(msg compose.DoneMsg, userID string) (domain.Post, error) {
	// The image URL is attached after upload; validation only needs to
	// know an image is coming.
	placeholder := msg.ImagePath
	if msg.Parent == nil {
		return domain.NewRoot(msg.Scope, userID, msg.Text, placeholder)
	}
	return domain.NewReply(*msg.Parent, userID, msg.Text, placeholder, msg.ReplyTo)
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case circlesView:
		s = a.circles.View()
	case eventsView:
		s = a.events.View()
	case boardView:
		s = a.board.View()
	case composeView:
		s = a.compose.View()
	}

	if len(a.unread) > 0 && (a.active == circlesView || a.active == eventsView) {
		s += "\n" + common.BadgeStyle.Render(fmt.Sprintf("%d unread", len(a.unread))) +
			common.StatusBarStyle.Render("  N marks read")
	}
	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}
	return s
}
