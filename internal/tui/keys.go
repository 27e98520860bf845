package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Close   key.Binding
	Reset   key.Binding
	End     key.Binding
	Start   key.Binding
	Submit  key.Binding
	NewQuiz key.Binding
	Toggle  key.Binding
	Up      key.Binding
	Down    key.Binding
	// Free-text answers take enter as a line break.
	SubmitText key.Binding
	NextMode   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Close:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		End:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "end early")),
		Start:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		NewQuiz:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new quiz")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		SubmitText: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		NextMode:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
	}
}
