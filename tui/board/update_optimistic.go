package board

import (
	tea "github.com/charmbracelet/bubbletea"

	"meetify/domain"
)

func (m Model) handleOptimisticMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AddOptimisticPostMsg:
		m.pendingOps++
		m.creates[msg.Post.ID] = msg.Post.ParentID
		if msg.Post.IsRoot() {
			item := PostItem{Post: msg.Post, Status: StatusPendingCreate}
			m.items = append([]PostItem{item}, m.items...)
			m.cursor = 0
			return m, nil
		}
		// Reply: show it in the open thread and bump the parent's
		// count so the feed matches what the backend will converge to.
		if m.showThread && m.parentID == msg.Post.ParentID {
			m.replies = append(m.replies, msg.Post)
			m.threadCursor = len(m.replies)
		}
		m.adjustReplyCount(msg.Post.ParentID, 1)
		return m, nil

	case CreateResultMsg:
		parentID, tracked := m.creates[msg.LocalID]
		if !tracked {
			// A completion for an entry this model never created, e.g.
			// from a board that was open before this one.
			return m, nil
		}
		delete(m.creates, msg.LocalID)
		m.pendingOps--
		if msg.Err != nil {
			return m.rollbackCreate(msg.LocalID, parentID, msg.Err), nil
		}
		if msg.Post.IsRoot() {
			for i, it := range m.items {
				if it.Post.ID == msg.LocalID {
					// Swap the optimistic entry for the server document.
					m.items[i] = PostItem{Post: msg.Post, Status: StatusNormal}
					break
				}
			}
			return m, nil
		}
		// The open thread may have switched while the create ran; only
		// the thread the reply belongs to gets touched.
		if m.showThread && m.parentID == msg.Post.ParentID {
			for i, r := range m.replies {
				if r.ID == msg.LocalID {
					m.replies[i] = msg.Post
					break
				}
			}
			m.cache[msg.Post.ParentID] = m.replies
			return m, nil
		}
		if cached, ok := m.cache[msg.Post.ParentID]; ok {
			for i, r := range cached {
				if r.ID == msg.LocalID {
					cached[i] = msg.Post
					break
				}
			}
		}
		return m, nil

	case LikeResultMsg:
		m.finishOp()
		if msg.Err != nil {
			// Rollback by toggling again.
			m.applyLikeToggle(msg.ID)
		}
		return m, nil

	case DeleteResultMsg:
		backup, hadBackup := m.backups[msg.ID]
		if !hadBackup {
			// Not a delete this model started.
			return m, nil
		}
		m.pendingOps--
		delete(m.backups, msg.ID)

		if msg.Err != nil {
			m.restoreAt(backup)
			m.err = msg.Err
			return m, nil
		}
		if m.showThread && m.parentID == msg.ID {
			m.showThread = false
		}
		delete(m.cache, msg.ID)
		if backup.item.Post.ParentID != "" {
			m.adjustReplyCount(backup.item.Post.ParentID, -1)
		}
		return m, nil
	}

	return m, nil
}

// finishOp marks one in-flight operation done without letting a stale
// completion drive the counter negative.
func (m *Model) finishOp() {
	if m.pendingOps > 0 {
		m.pendingOps--
	}
}

func (m Model) rollbackCreate(localID, parentID string, err error) Model {
	if parentID == "" {
		for i, it := range m.items {
			if it.Post.ID == localID {
				it.Status = StatusFailed
				it.Err = err
				m.items[i] = it
				break
			}
		}
		m.err = err
		return m
	}
	// A failed reply disappears from its thread and the parent's count
	// goes back down, whether or not that thread is still on screen.
	if m.showThread && m.parentID == parentID {
		for i, r := range m.replies {
			if r.ID == localID {
				m.replies = append(m.replies[:i], m.replies[i+1:]...)
				if m.threadCursor > len(m.replies) {
					m.threadCursor = len(m.replies)
				}
				break
			}
		}
		m.cache[parentID] = m.replies
	} else if cached, ok := m.cache[parentID]; ok {
		for i, r := range cached {
			if r.ID == localID {
				m.cache[parentID] = append(cached[:i:i], cached[i+1:]...)
				break
			}
		}
	}
	m.adjustReplyCount(parentID, -1)
	m.err = err
	return m
}

func (m Model) likeSelected(id string) (Model, tea.Cmd) {
	// Liked state comes from wherever the post currently lives, feed or
	// open thread; sending the wrong side turns an unlike into a re-add.
	wasLiked := false
	if it, ok := m.feedItem(id); ok {
		wasLiked = it.Post.LikedBy(m.userID)
	} else {
		for _, r := range m.replies {
			if r.ID == id {
				wasLiked = r.LikedBy(m.userID)
				break
			}
		}
	}
	m.applyLikeToggle(id)
	m.pendingOps++
	return m, m.toggleLike(id, wasLiked)
}

func (m *Model) applyLikeToggle(id string) {
	for i, it := range m.items {
		if it.Post.ID == id {
			it.Post.ToggleLike(m.userID)
			m.items[i] = it
			break
		}
	}
	for i, r := range m.replies {
		if r.ID == id {
			r.ToggleLike(m.userID)
			m.replies[i] = r
			break
		}
	}
}

func (m Model) deleteSelected(item PostItem) (Model, tea.Cmd) {
	id := item.Post.ID
	for i, it := range m.items {
		if it.Post.ID != id {
			continue
		}
		m.backups[id] = deleteBackup{item: it, index: i}
		m.items = append(m.items[:i], m.items[i+1:]...)
		if m.cursor >= len(m.items) && m.cursor > 0 {
			m.cursor--
		}
		break
	}
	m.pendingOps++
	return m, m.deletePost(id)
}

// deleteReply removes an own reply from the open thread, keeping a
// backup so a failed delete can put it back.
func (m Model) deleteReply(post domain.Post) (Model, tea.Cmd) {
	for i, r := range m.replies {
		if r.ID != post.ID {
			continue
		}
		m.backups[post.ID] = deleteBackup{item: PostItem{Post: r}, index: i}
		m.replies = append(m.replies[:i], m.replies[i+1:]...)
		m.cache[m.parentID] = m.replies
		if m.threadCursor > len(m.replies) {
			m.threadCursor = len(m.replies)
		}
		break
	}
	m.pendingOps++
	return m, m.deletePost(post.ID)
}

// restoreAt puts a post back where it was before a failed delete. A
// reply goes back into its thread, a root back into the feed.
func (m *Model) restoreAt(backup deleteBackup) {
	p := backup.item.Post
	if p.ParentID != "" {
		if m.showThread && m.parentID == p.ParentID {
			i := backup.index
			if i > len(m.replies) {
				i = len(m.replies)
			}
			m.replies = append(m.replies[:i], append([]domain.Post{p}, m.replies[i:]...)...)
			m.cache[p.ParentID] = m.replies
		} else if cached, ok := m.cache[p.ParentID]; ok {
			m.cache[p.ParentID] = append(cached, p)
		}
		return
	}
	i := backup.index
	if i > len(m.items) {
		i = len(m.items)
	}
	m.items = append(m.items[:i], append([]PostItem{backup.item}, m.items[i:]...)...)
}

// adjustReplyCount shifts the denormalized count shown on a feed item,
// clamping at zero like the backend read path does.
func (m *Model) adjustReplyCount(parentID string, delta int) {
	for i, it := range m.items {
		if it.Post.ID == parentID {
			it.Post.ReplyCount += delta
			if it.Post.ReplyCount < 0 {
				it.Post.ReplyCount = 0
			}
			m.items[i] = it
			return
		}
	}
}

// dismissFailed drops a failed optimistic entry once the user
// acknowledges it.
func (m Model) dismissFailed(id string) Model {
	for i, it := range m.items {
		if it.Post.ID == id && it.Status == StatusFailed {
			m.items = append(m.items[:i], m.items[i+1:]...)
			if m.cursor >= len(m.items) && m.cursor > 0 {
				m.cursor--
			}
			break
		}
	}
	return m
}
