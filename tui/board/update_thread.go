package board

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"meetify/domain"
)

func (m Model) openThread(post domain.Post) (Model, tea.Cmd) {
	m.showThread = true
	m.parentID = post.ID
	m.threadCursor = 0
	m.threadErr = nil

	// Cached threads render instantly; the fetch still runs so the
	// reply list and the parent's counter converge with the backend.
	if cached, ok := m.cache[post.ID]; ok {
		m.replies = cached
		m.loadingReplies = false
	} else {
		m.replies = nil
		m.loadingReplies = true
	}
	return m, m.fetchReplies(post.ID)
}

func (m Model) handleThreadMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RepliesLoadedMsg:
		if !m.showThread || m.parentID != msg.ParentID {
			// Thread was closed or switched while the fetch ran.
			return m, nil
		}
		m.replies = m.mergeReplies(msg.Replies)
		m.cache[msg.ParentID] = m.replies
		m.loadingReplies = false
		m.threadErr = nil
		// The fetch is the authoritative count; reflect it on the
		// feed entry.
		for i, it := range m.items {
			if it.Post.ID == msg.ParentID {
				it.Post.ReplyCount = len(msg.Replies)
				m.items[i] = it
				break
			}
		}
		if m.threadCursor > len(m.replies) {
			m.threadCursor = len(m.replies)
		}
		return m, nil

	case RepliesErrorMsg:
		if !m.showThread || m.parentID != msg.ParentID {
			return m, nil
		}
		m.loadingReplies = false
		m.threadErr = msg.Err
		return m, nil
	}
	return m, nil
}

// mergeReplies keeps in-flight optimistic replies that the server
// snapshot cannot contain yet.
func (m Model) mergeReplies(fresh []domain.Post) []domain.Post {
	byID := make(map[string]struct{}, len(fresh))
	for _, r := range fresh {
		byID[r.ID] = struct{}{}
	}
	out := fresh
	for _, r := range m.replies {
		if _, ok := byID[r.ID]; ok {
			continue
		}
		if isLocalID(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) handleThreadKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.showThread = false
		m.threadErr = nil
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.threadCursor > 0 {
			m.threadCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.threadCursor < len(m.replies) {
			m.threadCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Like):
		post, ok := m.threadSelected()
		if !ok || isLocalID(post.ID) {
			return m, nil
		}
		return m.likeSelected(post.ID)

	case key.Matches(msg, m.keys.Delete):
		// Only own, acknowledged replies; the root is deleted from the
		// feed so the cascade warning stays in one place.
		post, ok := m.threadSelected()
		if !ok || m.threadCursor == 0 || !post.IsOwn || isLocalID(post.ID) {
			return m, nil
		}
		m.confirmDelete = true
		return m, nil

	case key.Matches(msg, m.keys.Reply):
		parent, ok := m.feedItem(m.parentID)
		if !ok {
			return m, nil
		}
		scope := m.scope
		root := parent.Post
		if post, ok := m.threadSelected(); ok && post.ID != root.ID && !isLocalID(post.ID) {
			target := post
			return m, func() tea.Msg { return ComposeMsg{Scope: scope, Parent: &root, ReplyTo: &target} }
		}
		return m, func() tea.Msg { return ComposeMsg{Scope: scope, Parent: &root} }
	}
	return m, nil
}

// threadSelected returns the highlighted post in the thread view:
// cursor 0 is the root, 1..n are replies.
func (m Model) threadSelected() (domain.Post, bool) {
	if m.threadCursor == 0 {
		item, ok := m.feedItem(m.parentID)
		return item.Post, ok
	}
	i := m.threadCursor - 1
	if i < 0 || i >= len(m.replies) {
		return domain.Post{}, false
	}
	return m.replies[i], true
}

func (m Model) feedItem(id string) (PostItem, bool) {
	for _, it := range m.items {
		if it.Post.ID == id {
			return it, true
		}
	}
	return PostItem{}, false
}
