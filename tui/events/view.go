package events

import (
	"fmt"
	"strings"

	"meetify/domain"
	"meetify/tui/common"
)

// View renders the upcoming event list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("Meetify"))
	if m.nearbyOnly {
		b.WriteString(common.TaglineStyle.Render(fmt.Sprintf("events within %.0f km", m.radiusKm)))
	} else {
		b.WriteString(common.TaglineStyle.Render("upcoming events"))
	}
	b.WriteString("\n\n")

	visible := m.visible()
	switch {
	case m.loading:
		b.WriteString(fmt.Sprintf("%s loading events...\n", m.spinner.View()))
	case m.err != nil:
		b.WriteString(common.ErrorStyle.Render("could not load events: " + m.err.Error()))
		b.WriteString("\n")
	case len(visible) == 0:
		b.WriteString(common.TimestampStyle.Render("No upcoming events. Press n to plan one."))
		b.WriteString("\n")
	default:
		for i, e := range visible {
			b.WriteString(m.renderEvent(e, i == m.cursor))
			b.WriteString("\n")
		}
	}

	if m.creating {
		b.WriteString("\nNew event (tab switches fields):\n")
		b.WriteString("  name:  " + m.nameInput.View() + "\n")
		b.WriteString("  start: " + m.startInput.View() + "\n")
	}
	if m.notice != "" {
		b.WriteString(common.SuccessStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(common.StatusBarStyle.Render(
		"enter board · J join · L leave · f nearby · n new · 1 circles · q quit"))
	return common.ClampWidth(b.String(), m.width)
}

func (m Model) renderEvent(e domain.CircleEvent, selected bool) string {
	name := common.AuthorStyle.Render(e.Name)
	when := common.TimestampStyle.Render(e.StartsAt.Local().Format("Mon Jan 2 15:04"))

	var tags []string
	if e.IsAttending(m.userID) {
		tags = append(tags, common.SuccessStyle.Render("going"))
	}
	if e.CreatorID == m.userID {
		tags = append(tags, common.OwnBadgeStyle.Render("(yours)"))
	}

	line := name + "  " + when
	line += common.TimestampStyle.Render(fmt.Sprintf("  👥 %d", len(e.Attendees)))
	if e.Location != (domain.Point{}) {
		d := domain.DistanceKm(m.home, e.Location)
		line += common.TimestampStyle.Render(fmt.Sprintf("  %.0f km", d))
	}
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	if e.Description != "" {
		line += "\n" + common.ContentStyle.Render(common.ClipLines(e.Description, 1))
	}

	if selected {
		return common.SelectedStyle.Render(line)
	}
	return common.UnselectedStyle.Render(line)
}
