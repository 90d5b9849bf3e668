package board

import (
	"fmt"
	"strings"
	"time"

	"meetify/domain"
	"meetify/tui/common"
)

// View renders the board: either the feed of root posts or one open
// thread.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("Meetify"))
	b.WriteString(common.TaglineStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.showThread {
		b.WriteString(m.viewThread())
	} else {
		b.WriteString(m.viewFeed())
	}

	return common.ClampWidth(b.String(), m.width)
}

func (m Model) viewFeed() string {
	switch m.phase {
	case phaseLoading:
		return fmt.Sprintf("%s loading board...", m.spinner.View())
	case phaseError:
		return common.ErrorStyle.Render("could not load board: "+errString(m.err)) +
			"\n" + common.StatusBarStyle.Render("r retry · esc back · q quit")
	}

	var b strings.Builder
	if len(m.items) == 0 {
		b.WriteString(common.TimestampStyle.Render("Nothing here yet. Press n to start the conversation."))
		b.WriteString("\n")
	}
	for i, it := range m.items {
		b.WriteString(m.renderItem(it, i == m.cursor))
		b.WriteString("\n")
	}

	if m.phase == phaseLoadingMore {
		b.WriteString(fmt.Sprintf("%s loading more...\n", m.spinner.View()))
	}
	if m.confirmDelete {
		b.WriteString(common.ConfirmStyle.Render("Delete this post and its replies? (y/n)"))
		b.WriteString("\n")
	}
	if m.err != nil && m.phase == phaseLoaded {
		b.WriteString(common.ErrorStyle.Render(errString(m.err)))
		b.WriteString("\n")
	}

	b.WriteString(common.StatusBarStyle.Render(
		"↑/↓ move · enter thread · n post · c reply · l like · d delete · r refresh · esc back"))
	return b.String()
}

func (m Model) viewThread() string {
	var b strings.Builder

	parent, ok := m.feedItem(m.parentID)
	if ok {
		b.WriteString(m.renderPost(parent.Post, m.threadCursor == 0, parent.Status))
		b.WriteString("\n")
	}

	switch {
	case m.loadingReplies:
		b.WriteString(fmt.Sprintf("  %s loading replies...\n", m.spinner.View()))
	case m.threadErr != nil:
		b.WriteString("  " + common.ErrorStyle.Render("could not load replies: "+errString(m.threadErr)) + "\n")
	case len(m.replies) == 0:
		b.WriteString("  " + common.TimestampStyle.Render("no replies yet") + "\n")
	}

	for i, r := range m.replies {
		status := StatusNormal
		if isLocalID(r.ID) {
			status = StatusPendingCreate
		}
		line := m.renderPost(r, m.threadCursor == i+1, status)
		b.WriteString(indent(line, 2))
		b.WriteString("\n")
	}

	if m.confirmDelete {
		b.WriteString(common.ConfirmStyle.Render("Delete this reply? (y/n)"))
		b.WriteString("\n")
	}

	b.WriteString(common.StatusBarStyle.Render("↑/↓ move · c reply · l like · d delete · esc back"))
	return b.String()
}

func (m Model) renderItem(it PostItem, selected bool) string {
	return m.renderPost(it.Post, selected, it.Status)
}

func (m Model) renderPost(p domain.Post, selected bool, status PostStatus) string {
	author := p.Author
	if author == "" {
		author = p.AuthorID
	}
	if p.IsOwn {
		author = m.username
	}

	header := common.AuthorStyle.Render(author)
	if p.IsOwn {
		header += common.OwnBadgeStyle.Render("(you)")
	}
	if ts := common.RelativeTime(p.CreatedAt, time.Now()); ts != "" {
		header += " " + common.TimestampStyle.Render(ts)
	}
	if p.ReplyToID != "" {
		header += " " + common.TimestampStyle.Render("↩")
	}

	body := common.ContentStyle.Render(common.ClipLines(p.Text, 4))
	if p.ImageURL != "" {
		body += "\n" + common.TimestampStyle.Render("🖼 "+p.ImageURL)
	}

	footer := common.TimestampStyle.Render(fmt.Sprintf("♥ %d", len(p.Likes)))
	if p.LikedBy(m.userID) {
		footer = common.SuccessStyle.Render(fmt.Sprintf("♥ %d", len(p.Likes)))
	}
	if p.IsRoot() {
		footer += common.TimestampStyle.Render(fmt.Sprintf("  💬 %d", p.ReplyCount))
	}

	switch status {
	case StatusPendingCreate:
		footer += common.PendingStyle.Render("  posting...")
	case StatusFailed:
		footer += common.ErrorStyle.Render("  failed (d to dismiss)")
	}

	card := header + "\n" + body + "\n" + footer
	if selected {
		return common.SelectedStyle.Width(m.cardWidth()).Render(card)
	}
	return common.UnselectedStyle.Width(m.cardWidth()).Render(card)
}

func (m Model) cardWidth() int {
	w := m.width - 6
	if w < 24 {
		w = 72
	}
	return w
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = pad + ln
	}
	return strings.Join(lines, "\n")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
