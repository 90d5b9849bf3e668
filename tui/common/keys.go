package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit          key.Binding
	Refresh       key.Binding
	Up            key.Binding
	Down          key.Binding
	Select        key.Binding // enter: open the highlighted item
	Back          key.Binding // esc: return to the previous screen
	New           key.Binding // n: compose a post / create circle or event
	Reply         key.Binding // c: reply to the highlighted post
	Like          key.Binding // l: toggle like
	Delete        key.Binding // d: delete own post
	Join          key.Binding // j is taken by movement, J joins
	Leave         key.Binding // L: leave circle or event
	Approve       key.Binding // a: approve pending member (admins)
	Decline       key.Binding // x: decline pending member (admins)
	Circles       key.Binding // 1: circle list
	Events        key.Binding // 2: event list
	Nearby        key.Binding // f: toggle nearby-only event filter
	Notifications key.Binding // N: mark notifications read
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Reply: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "reply"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Join: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "join"),
		),
		Leave: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "leave"),
		),
		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve"),
		),
		Decline: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "decline"),
		),
		Circles: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "circles"),
		),
		Events: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "events"),
		),
		Nearby: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "nearby"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "mark read"),
		),
	}
}
