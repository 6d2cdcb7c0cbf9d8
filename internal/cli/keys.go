package cli

import "github.com/charmbracelet/bubbles/key"

// chartKeys are the preview bindings.
type chartKeys struct {
	Up, Down       key.Binding
	Left, Right    key.Binding
	Today, Jump    key.Binding
	Sight          key.Binding
	Collapse       key.Binding
	Panel          key.Binding
	Earlier, Later key.Binding
	StartEarlier   key.Binding
	StartLater     key.Binding
	EndEarlier     key.Binding
	EndLater       key.Binding
	Schedule       key.Binding
	Help, Quit     key.Binding
}

func defaultChartKeys() chartKeys {
	return chartKeys{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		Today:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Jump:         key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to bar")),
		Sight:        key.NewBinding(key.WithKeys("tab", "z"), key.WithHelp("z", "zoom")),
		Collapse:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "fold")),
		Panel:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "panel")),
		Earlier:      key.NewBinding(key.WithKeys("H"), key.WithHelp("H/L", "move bar")),
		Later:        key.NewBinding(key.WithKeys("L")),
		StartEarlier: key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "move start")),
		StartLater:   key.NewBinding(key.WithKeys("]")),
		EndEarlier:   key.NewBinding(key.WithKeys("<"), key.WithHelp("</>", "move end")),
		EndLater:     key.NewBinding(key.WithKeys(">")),
		Schedule:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "schedule")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k chartKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Sight, k.Collapse, k.Earlier, k.Help, k.Quit}
}

func (k chartKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Today, k.Jump, k.Sight, k.Panel, k.Collapse},
		{k.Earlier, k.StartEarlier, k.EndEarlier, k.Schedule},
		{k.Help, k.Quit},
	}
}
