package board

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"meetify/domain"
)

type stubBoard struct{}

func (stubBoard) FetchRootPosts(context.Context, domain.Scope, string, int) ([]domain.Post, string, error) {
	return nil, "", nil
}
func (stubBoard) FetchReplies(context.Context, domain.Scope, string) ([]domain.Post, error) {
	return nil, nil
}
func (stubBoard) CreatePost(_ context.Context, draft domain.Post) (domain.Post, error) {
	return draft, nil
}
func (stubBoard) DeletePost(context.Context, string, string) error { return nil }
func (stubBoard) ToggleLike(_ context.Context, _ string, _ string, currentlyLiked bool) (bool, error) {
	return !currentlyLiked, nil
}
func (stubBoard) UploadImage(context.Context, string, []byte) (string, error) { return "", nil }

func newTestModel() Model {
	return New(stubBoard{}, domain.CircleScope("c1"), "u1", "you", "test board")
}

func makePost(id string, createdAt time.Time, authorID string) domain.Post {
	return domain.Post{
		ID:        id,
		Scope:     domain.CircleScope("c1"),
		AuthorID:  authorID,
		Author:    "Author " + id,
		Text:      "hello " + id,
		CreatedAt: createdAt,
	}
}

func loaded(m Model, seed ...domain.Post) Model {
	items := make([]PostItem, len(seed))
	for i, p := range seed {
		items[i] = PostItem{Post: p, Status: StatusNormal}
	}
	m.items = items
	m.phase = phaseLoaded
	return m
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func posts(ids ...string) []domain.Post {
	out := make([]domain.Post, len(ids))
	for i, id := range ids {
		out[i] = makePost(id, time.Now(), "u2")
	}
	return out
}
