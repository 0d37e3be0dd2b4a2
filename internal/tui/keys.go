package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	NextPivot key.Binding
	PrevPivot key.Binding
	PickPivot key.Binding
	Grab      key.Binding
	Drop      key.Binding
	Cancel    key.Binding
	Open      key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Deny      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "column")),
	Right:     key.NewBinding(key.WithKeys("l", "right")),
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "card")),
	Down:      key.NewBinding(key.WithKeys("j", "down")),
	NextPivot: key.NewBinding(key.WithKeys("p", "tab"), key.WithHelp("p/P", "pivot")),
	PrevPivot: key.NewBinding(key.WithKeys("P", "shift+tab")),
	PickPivot: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6")),
	Grab:      key.NewBinding(key.WithKeys(" ", "m"), key.WithHelp("space", "move")),
	Drop:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "drop")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Delete:    key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "del")),
	Confirm:   key.NewBinding(key.WithKeys("y", "Y")),
	Deny:      key.NewBinding(key.WithKeys("n", "N", "esc", "q")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

// helpLine renders "key:desc" pairs for the status bar.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, " ")
}
