package board

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RefreshTickMsg:
		// Rearm first so one skipped tick does not stop the timer.
		if m.busy() || m.showThread {
			return m, refreshTick()
		}
		m.phase = phaseRefreshing
		m.reqSeq++
		return m, tea.Batch(m.loadInitial(m.reqSeq, true), refreshTick())
	}

	switch msg.(type) {
	case PostsLoadedMsg, PostsErrorMsg, PageLoadedMsg, PageErrorMsg:
		return m.handleLoadingMsg(msg)
	case RepliesLoadedMsg, RepliesErrorMsg:
		return m.handleThreadMsg(msg)
	case AddOptimisticPostMsg, CreateResultMsg, LikeResultMsg, DeleteResultMsg:
		return m.handleOptimisticMsg(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmDelete {
		return m.handleConfirmKey(msg)
	}
	if m.showThread {
		return m.handleThreadKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		// Prefetch the next page when the cursor approaches the end.
		if m.hasMore && m.phase == phaseLoaded && m.cursor >= len(m.items)-prefetchTrigger {
			m.phase = phaseLoadingMore
			m.reqSeq++
			return m, m.loadOlder(m.reqSeq)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.busy() {
			return m, nil
		}
		m.phase = phaseRefreshing
		m.reqSeq++
		return m, m.loadInitial(m.reqSeq, true)

	case key.Matches(msg, m.keys.Select):
		item, ok := m.selected()
		if !ok || item.Status != StatusNormal {
			return m, nil
		}
		return m.openThread(item.Post)

	case key.Matches(msg, m.keys.New):
		scope := m.scope
		return m, func() tea.Msg { return ComposeMsg{Scope: scope} }

	case key.Matches(msg, m.keys.Reply):
		item, ok := m.selected()
		if !ok || item.Status != StatusNormal {
			return m, nil
		}
		parent := item.Post
		scope := m.scope
		return m, func() tea.Msg { return ComposeMsg{Scope: scope, Parent: &parent} }

	case key.Matches(msg, m.keys.Like):
		item, ok := m.selected()
		if !ok || item.Status != StatusNormal {
			return m, nil
		}
		return m.likeSelected(item.Post.ID)

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.selected()
		if !ok || !item.Post.IsOwn {
			return m, nil
		}
		if item.Status == StatusFailed {
			return m.dismissFailed(item.Post.ID), nil
		}
		if item.Status != StatusNormal {
			return m, nil
		}
		m.confirmDelete = true
		return m, nil
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmDelete = false
		if m.showThread {
			post, ok := m.threadSelected()
			if !ok || m.threadCursor == 0 {
				return m, nil
			}
			return m.deleteReply(post)
		}
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.deleteSelected(item)
	default:
		m.confirmDelete = false
		return m, nil
	}
}

func (m Model) selected() (PostItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return PostItem{}, false
	}
	return m.items[m.cursor], true
}
