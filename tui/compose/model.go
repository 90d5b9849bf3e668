package compose

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"meetify/domain"
	"meetify/tui/common"
)

// DoneMsg is sent when composing is complete. Text and ImagePath are
// both empty when the user cancelled.
type DoneMsg struct {
	Text      string
	ImagePath string // Local file to upload before posting
	Scope     domain.Scope
	Parent    *domain.Post
	ReplyTo   *domain.Post
}

type focusTarget int

const (
	focusBody focusTarget = iota
	focusImage
)

// Model is the post/reply composer.
type Model struct {
	scope   domain.Scope
	parent  *domain.Post
	replyTo *domain.Post

	body  textarea.Model
	image textinput.Model
	focus focusTarget
	width int
}

// New creates a composer. parent is nil for a root post; replyTo marks
// which reply the user is responding to inside the thread.
func New(scope domain.Scope, parent, replyTo *domain.Post) Model {
	ta := textarea.New()
	ta.Placeholder = "Say something..."
	if parent != nil {
		ta.Placeholder = "Write a reply..."
	}
	ta.CharLimit = 1000
	ta.SetWidth(72)
	ta.SetHeight(6)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "optional image path"
	ti.CharLimit = 200

	return Model{
		scope:   scope,
		parent:  parent,
		replyTo: replyTo,
		body:    ta,
		image:   ti,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the composer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, m.done("", "")

		case "tab":
			if m.focus == focusBody {
				m.focus = focusImage
				m.body.Blur()
				m.image.Focus()
			} else {
				m.focus = focusBody
				m.image.Blur()
				m.body.Focus()
			}
			return m, nil

		case "ctrl+d":
			text := strings.TrimSpace(m.body.Value())
			imagePath := strings.TrimSpace(m.image.Value())
			if text == "" && imagePath == "" {
				return m, m.done("", "")
			}
			return m, m.done(text, imagePath)
		}
	}

	var cmd tea.Cmd
	if m.focus == focusBody {
		m.body, cmd = m.body.Update(msg)
	} else {
		m.image, cmd = m.image.Update(msg)
	}
	return m, cmd
}

func (m Model) done(text, imagePath string) tea.Cmd {
	msg := DoneMsg{
		Text:      text,
		ImagePath: imagePath,
		Scope:     m.scope,
		Parent:    m.parent,
		ReplyTo:   m.replyTo,
	}
	return func() tea.Msg { return msg }
}

// View renders the composer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("Meetify"))
	if m.parent != nil {
		b.WriteString(common.TaglineStyle.Render("reply"))
	} else {
		b.WriteString(common.TaglineStyle.Render("new post"))
	}
	b.WriteString("\n\n")

	if m.replyTo != nil {
		quoted := common.ClipLines(m.replyTo.Text, 1)
		b.WriteString(common.TimestampStyle.Render("↩ " + quoted))
		b.WriteString("\n")
	} else if m.parent != nil {
		quoted := common.ClipLines(m.parent.Text, 1)
		b.WriteString(common.TimestampStyle.Render("↩ " + quoted))
		b.WriteString("\n")
	}

	b.WriteString(m.body.View())
	b.WriteString("\n\nimage: " + m.image.View())
	b.WriteString("\n")
	b.WriteString(common.StatusBarStyle.Render("ctrl+d send · tab image field · esc cancel"))
	return common.ClampWidth(b.String(), m.width)
}
