package board

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleLoadingMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PostsLoadedMsg:
		if msg.ReqSeq != m.reqSeq {
			// A newer request superseded this one.
			return m, nil
		}

		fresh := make([]PostItem, len(msg.Posts))
		for i, p := range msg.Posts {
			fresh[i] = PostItem{Post: p, Status: StatusNormal}
		}

		if msg.Refresh {
			fresh = m.mergeRefresh(fresh)
		}

		m.items = fresh
		m.phase = phaseLoaded
		m.err = nil
		m.nextCursor = msg.Next
		m.hasMore = msg.Next != ""
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case PostsErrorMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		if msg.Refresh {
			// A failed background refresh keeps the stale feed on
			// screen rather than replacing it with an error page.
			m.phase = phaseLoaded
			return m, nil
		}
		m.phase = phaseError
		m.err = msg.Err
		return m, nil

	case PageLoadedMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.phase = phaseLoaded
		m.err = nil

		existing := make(map[string]struct{}, len(m.items))
		for _, it := range m.items {
			existing[it.Post.ID] = struct{}{}
		}
		added := 0
		for _, p := range msg.Posts {
			if _, ok := existing[p.ID]; ok {
				continue
			}
			m.items = append(m.items, PostItem{Post: p, Status: StatusNormal})
			added++
		}
		m.nextCursor = msg.Next
		m.hasMore = msg.Next != ""
		if added == 0 && msg.RawCount == 0 {
			m.hasMore = false
		}
		return m, nil

	case PageErrorMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		// Pagination failures are recoverable: keep what we have and
		// let the next scroll retry.
		m.phase = phaseLoaded
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// mergeRefresh folds the server's fresh page into the current feed
// without dropping in-flight optimistic entries and without resurrecting
// posts with an in-flight delete.
func (m Model) mergeRefresh(fresh []PostItem) []PostItem {
	byID := make(map[string]struct{}, len(fresh))
	kept := fresh[:0]
	for _, it := range fresh {
		if _, deleting := m.backups[it.Post.ID]; deleting {
			continue
		}
		byID[it.Post.ID] = struct{}{}
		kept = append(kept, it)
	}

	var pending []PostItem
	for _, it := range m.items {
		if it.Status == StatusNormal {
			continue
		}
		// Pending creations and failed entries are not on the server
		// yet (or never will be): keep them at the top.
		if _, ok := byID[it.Post.ID]; !ok {
			pending = append(pending, it)
		}
	}
	return append(pending, kept...)
}
