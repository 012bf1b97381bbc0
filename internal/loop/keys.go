package loop

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the reader key bindings. It satisfies help.KeyMap.
type KeyMap struct {
	Quit    key.Binding
	Pause   key.Binding
	Slower  key.Binding
	Faster  key.Binding
	Back    key.Binding
	Forward key.Binding
	Help    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Slower:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "slower (÷1.1)")),
		Faster:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "faster (×1.1)")),
		Back:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous word (paused)")),
		Forward: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next word")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Slower, k.Faster, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Slower, k.Faster},
		{k.Back, k.Forward},
		{k.Help, k.Quit},
	}
}
