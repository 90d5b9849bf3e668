package board

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	tea "github.com/charmbracelet/bubbletea"

	"meetify/domain"
)

const (
	refreshInterval = 60 * time.Second
	loadRetryStep   = 500 * time.Millisecond
)

// linearBackoff waits step, 2×step, 3×step, ... between attempts.
type linearBackoff struct {
	step    time.Duration
	attempt int
}

func (b *linearBackoff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.step
}

func (b *linearBackoff) Reset() {
	b.attempt = 0
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

// loadInitial fetches the first page. Transient backend errors are
// retried a few times before surfacing, so a blip on startup does not
// land the user on an error screen.
func (m Model) loadInitial(reqSeq int, refresh bool) tea.Cmd {
	board := m.board
	scope := m.scope
	return func() tea.Msg {
		var (
			posts []domain.Post
			next  string
		)
		op := func() error {
			var err error
			posts, next, err = board.FetchRootPosts(context.Background(), scope, "", pageSize)
			if err != nil && !errors.Is(err, domain.ErrTransient) {
				return backoff.Permanent(err)
			}
			return err
		}
		policy := backoff.WithMaxRetries(&linearBackoff{step: loadRetryStep}, loadAttempts-1)
		if err := backoff.Retry(op, policy); err != nil {
			return PostsErrorMsg{Err: err, Refresh: refresh, ReqSeq: reqSeq}
		}
		return PostsLoadedMsg{Posts: posts, Next: next, RawCount: len(posts), Refresh: refresh, ReqSeq: reqSeq}
	}
}

func (m Model) loadOlder(reqSeq int) tea.Cmd {
	board := m.board
	scope := m.scope
	cursor := m.nextCursor
	return func() tea.Msg {
		posts, next, err := board.FetchRootPosts(context.Background(), scope, cursor, pageSize)
		if err != nil {
			return PageErrorMsg{Err: err, ReqSeq: reqSeq}
		}
		return PageLoadedMsg{Posts: posts, Next: next, RawCount: len(posts), ReqSeq: reqSeq}
	}
}

func (m Model) fetchReplies(parentID string) tea.Cmd {
	board := m.board
	scope := m.scope
	return func() tea.Msg {
		replies, err := board.FetchReplies(context.Background(), scope, parentID)
		if err != nil {
			return RepliesErrorMsg{ParentID: parentID, Err: err}
		}
		return RepliesLoadedMsg{ParentID: parentID, Replies: replies}
	}
}

func (m Model) toggleLike(id string, currentlyLiked bool) tea.Cmd {
	board := m.board
	userID := m.userID
	return func() tea.Msg {
		liked, err := board.ToggleLike(context.Background(), id, userID, currentlyLiked)
		return LikeResultMsg{ID: id, Liked: liked, Err: err}
	}
}

func (m Model) deletePost(id string) tea.Cmd {
	board := m.board
	userID := m.userID
	return func() tea.Msg {
		err := board.DeletePost(context.Background(), id, userID)
		return DeleteResultMsg{ID: id, Err: err}
	}
}
