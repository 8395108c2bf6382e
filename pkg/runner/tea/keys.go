package teaui

import "github.com/charmbracelet/bubbles/key"

type calendarKeys struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Open      key.Binding
	Refresh   key.Binding
	Command   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func (k calendarKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Open, k.Help, k.Quit}
}

func (k calendarKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.PrevMonth, k.NextMonth, k.Today, k.Refresh},
		{k.Open, k.Command, k.Help, k.Quit},
	}
}

type editorKeys struct {
	Save   key.Binding
	Delete key.Binding
	Close  key.Binding
	Quit   key.Binding
}

func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Delete, k.Close, k.Quit}
}

func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultCalendarKeys() calendarKeys {
	return calendarKeys{
		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "previous day")),
		Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next day")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "previous week")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "next week")),
		PrevMonth: key.NewBinding(key.WithKeys("[", "p", "pgup"), key.WithHelp("[", "previous month")),
		NextMonth: key.NewBinding(key.WithKeys("]", "n", "pgdown"), key.WithHelp("]", "next month")),
		Today:     key.NewBinding(key.WithKeys("t", "home"), key.WithHelp("t", "today")),
		Open:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "write")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Command:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func defaultEditorKeys() editorKeys {
	return editorKeys{
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save now")),
		Delete: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "delete entry")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "save & quit")),
	}
}
