package board

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"meetify/app"
	"meetify/domain"
	"meetify/tui/common"
)

const (
	pageSize        = 20
	prefetchTrigger = 3
	loadAttempts    = 3

	localIDPrefix = "local-"
)

// LocalID returns a fresh id for an optimistic entry that has not
// been stored yet. Local ids never collide with server document ids.
func LocalID() string {
	return localIDPrefix + uuid.NewString()
}

func isLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

// PostsLoadedMsg is sent when an initial load or refresh completes.
type PostsLoadedMsg struct {
	Posts    []domain.Post
	Next     string
	RawCount int
	Refresh  bool
	ReqSeq   int
}

// PostsErrorMsg is sent when an initial load or refresh fails.
type PostsErrorMsg struct {
	Err     error
	Refresh bool
	ReqSeq  int
}

// PageLoadedMsg is sent when an older page arrives.
type PageLoadedMsg struct {
	Posts    []domain.Post
	Next     string
	RawCount int
	ReqSeq   int
}

// PageErrorMsg is sent when loading an older page fails.
type PageErrorMsg struct {
	Err    error
	ReqSeq int
}

// RepliesLoadedMsg is sent when a thread's replies arrive.
type RepliesLoadedMsg struct {
	ParentID string
	Replies  []domain.Post
}

// RepliesErrorMsg is sent when a thread fetch fails.
type RepliesErrorMsg struct {
	ParentID string
	Err      error
}

// ComposeMsg asks the root model to open the composer. Parent is nil
// for a new root post.
type ComposeMsg struct {
	Scope   domain.Scope
	Parent  *domain.Post
	ReplyTo *domain.Post
}

// CloseMsg asks the root model to leave the board screen.
type CloseMsg struct{}

// AddOptimisticPostMsg inserts a locally created post while the
// backend call is in flight.
type AddOptimisticPostMsg struct {
	Post domain.Post
}

// CreateResultMsg reconciles an optimistic entry with the backend
// outcome.
type CreateResultMsg struct {
	LocalID string
	Post    domain.Post
	Err     error
}

// LikeResultMsg is sent after a like toggle attempt.
type LikeResultMsg struct {
	ID    string
	Liked bool
	Err   error
}

// DeleteResultMsg is sent after a delete attempt.
type DeleteResultMsg struct {
	ID  string
	Err error
}

// RefreshTickMsg fires the periodic background refresh.
type RefreshTickMsg struct{}

// PostStatus tracks the lifecycle of a feed entry relative to the
// backend.
type PostStatus int

const (
	StatusNormal PostStatus = iota
	StatusPendingCreate
	StatusFailed
)

// PostItem wraps a post with its local mutation state.
type PostItem struct {
	Post   domain.Post
	Status PostStatus
	Err    error
}

type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseLoaded
	phaseLoadingMore
	phaseRefreshing
	phaseError
)

// deleteBackup remembers an optimistically removed item so a failed
// delete can put it back where it was.
type deleteBackup struct {
	item  PostItem
	index int
}

type feedState struct {
	items      []PostItem
	cursor     int
	nextCursor string
	hasMore    bool
	phase      phase
	err        error
	reqSeq     int
	pendingOps int
	backups    map[string]deleteBackup
	creates    map[string]string // local id -> parent id, "" for roots
}

type threadState struct {
	showThread     bool
	parentID       string
	replies        []domain.Post
	loadingReplies bool
	threadCursor   int
	threadErr      error
	cache          map[string][]domain.Post
}

type uiState struct {
	keys          common.KeyMap
	spinner       spinner.Model
	width         int
	height        int
	confirmDelete bool
	title         string
}

// Model is the discussion board for one scope (circle or event).
type Model struct {
	board    app.BoardService
	scope    domain.Scope
	userID   string
	username string
	feedState
	threadState
	uiState
}

// New creates a board model for the given scope.
func New(board app.BoardService, scope domain.Scope, userID, username, title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BD5CA"))

	return Model{
		board:    board,
		scope:    scope,
		userID:   userID,
		username: username,
		feedState: feedState{
			phase:   phaseLoading,
			hasMore: true,
			backups: make(map[string]deleteBackup),
			creates: make(map[string]string),
		},
		threadState: threadState{
			cache: make(map[string][]domain.Post),
		},
		uiState: uiState{
			keys:    common.DefaultKeyMap(),
			spinner: s,
			title:   title,
		},
	}
}

// Init starts the initial fetch and the background refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadInitial(m.reqSeq, false),
		m.spinner.Tick,
		refreshTick(),
	)
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// busy reports whether a manual operation is in flight. The periodic
// background refresh is skipped while busy so it cannot clobber an
// optimistic state mid-flight.
func (m Model) busy() bool {
	return m.phase == phaseLoading || m.phase == phaseLoadingMore ||
		m.phase == phaseRefreshing || m.pendingOps > 0
}
