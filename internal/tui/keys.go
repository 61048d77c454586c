package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Prev       key.Binding
	Next       key.Binding
	Jump       key.Binding
	Pane       key.Binding
	CursorUp   key.Binding
	CursorDown key.Binding
	AddTask    key.Binding
	Check      key.Binding
	NewCat     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ctrl+n opens the category form: terminals send ctrl+m as enter.
func defaultKeyMap() keyMap {
	return keyMap{
		Prev:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev category")),
		Next:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next category")),
		Jump:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
		Pane:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		CursorUp:   key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "task up")),
		CursorDown: key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "task down")),
		AddTask:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Check:      key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "check")),
		NewCat:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new category")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.AddTask, k.Check, k.NewCat, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump, k.Pane},
		{k.CursorUp, k.CursorDown, k.AddTask, k.Check},
		{k.NewCat, k.Help, k.Quit},
	}
}
