package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	AimLeft   key.Binding
	AimRight  key.Binding
	Primary   key.Binding
	Secondary key.Binding
	Tertiary  key.Binding
	Pet       key.Binding
	Strike    key.Binding
	Accept    key.Binding
	Decline   key.Binding
	Close     key.Binding
	Copy      key.Binding
	Submit    key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "forward")),
		Down:      key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "back")),
		Left:      key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),
		AimLeft:   key.NewBinding(key.WithKeys(",", "["), key.WithHelp(",", "turn left")),
		AimRight:  key.NewBinding(key.WithKeys(".", "]"), key.WithHelp(".", "turn right")),
		Primary:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "interact")),
		Secondary: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "read/use")),
		Tertiary:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "change")),
		Pet:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pet")),
		Strike:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "strike")),
		Accept:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "accept")),
		Decline:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "decline")),
		Close:     key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "close")),
		Copy:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "copy")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Primary, k.Secondary, k.Tertiary, k.Pet, k.Strike, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.AimLeft, k.AimRight, k.Strike},
		{k.Primary, k.Secondary, k.Tertiary, k.Pet},
		{k.Accept, k.Decline, k.Close, k.Copy, k.Quit},
	}
}

// overlayHelp lists the keys that work while a panel is open.
func (k keyMap) overlayHelp(bindings ...key.Binding) []key.Binding {
	return append(bindings, k.Quit)
}
