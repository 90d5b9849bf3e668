package circles

import (
	"fmt"
	"strings"

	"meetify/domain"
	"meetify/tui/common"
)

// View renders the circle list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("Meetify"))
	b.WriteString(common.TaglineStyle.Render("circles"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("%s loading circles...\n", m.spinner.View()))
	case m.err != nil:
		b.WriteString(common.ErrorStyle.Render("could not load circles: " + m.err.Error()))
		b.WriteString("\n")
	case len(m.items) == 0:
		b.WriteString(common.TimestampStyle.Render("No circles yet. Press n to create one."))
		b.WriteString("\n")
	default:
		for i, c := range m.items {
			b.WriteString(m.renderCircle(c, i == m.cursor))
			b.WriteString("\n")
		}
	}

	if m.creating {
		mode := "public"
		if m.newPrivate {
			mode = "private"
		}
		b.WriteString("\nNew circle (" + mode + ", ctrl+p toggles): " + m.nameInput.View() + "\n")
	}
	if m.notice != "" {
		b.WriteString(common.SuccessStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(common.StatusBarStyle.Render(
		"enter board · J join · L leave · a approve · x decline · n new · 2 events · q quit"))
	return common.ClampWidth(b.String(), m.width)
}

func (m Model) renderCircle(c domain.Circle, selected bool) string {
	name := common.AuthorStyle.Render(c.Name)
	if c.Private {
		name += common.TimestampStyle.Render(" 🔒")
	}

	var tags []string
	switch {
	case c.IsAdmin(m.userID):
		tags = append(tags, common.SuccessStyle.Render("admin"))
	case c.IsMember(m.userID):
		tags = append(tags, common.SuccessStyle.Render("member"))
	case c.IsPending(m.userID):
		tags = append(tags, common.PendingStyle.Render("pending"))
	}
	if c.IsAdmin(m.userID) && len(c.PendingMembers) > 0 {
		tags = append(tags, common.BadgeStyle.Render(fmt.Sprintf("%d requests", len(c.PendingMembers))))
	}

	info := common.TimestampStyle.Render(fmt.Sprintf("%d members", len(c.Members)))
	line := name + "  " + info
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	if c.Description != "" {
		line += "\n" + common.ContentStyle.Render(common.ClipLines(c.Description, 1))
	}

	if selected {
		return common.SelectedStyle.Render(line)
	}
	return common.UnselectedStyle.Render(line)
}
