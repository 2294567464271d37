package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/symdrill/internal/practice"
)

type keyMap struct {
	Undo key.Binding
	Next key.Binding
	Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Undo: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "undo")),
		Next: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next round")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Next, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// keyName translates a terminal key event into the identifier the engine
// understands. Named keys come back multi-character and are ignored there.
func keyName(msg tea.KeyMsg) string {
	if msg.Alt {
		return msg.String()
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return practice.KeyBackspace
	case tea.KeyEnter:
		return practice.KeyEnter
	case tea.KeySpace:
		return " "
	case tea.KeyRunes:
		return string(msg.Runes)
	default:
		return msg.String()
	}
}
