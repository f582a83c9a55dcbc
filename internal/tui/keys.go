package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds the keys of the grid view.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Collapse   key.Binding
	Expand     key.Binding
	Sort       key.Binding
	NextColumn key.Binding
	PrevColumn key.Binding
	Narrow     key.Binding
	Widen      key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Bottom     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Collapse:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "collapse")),
		Expand:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "expand")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		NextColumn: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next column")),
		PrevColumn: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("⇧tab", "prev column")),
		Narrow:     key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "narrow column")),
		Widen:      key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "widen column")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "follow")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Sort, k.NextColumn, k.Bottom, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Bottom},
		{k.Collapse, k.Expand, k.Sort},
		{k.NextColumn, k.PrevColumn, k.Narrow, k.Widen},
		{k.Help, k.Quit},
	}
}
