package theme

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	accentHex = "#ff87d7"
	baseHex   = "#303030"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Calendar CalendarTheme
	Editor   EditorTheme
	Footer   FooterTheme
}

// CalendarTheme groups styles used by the month grid.
type CalendarTheme struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Padding  lipgloss.Style
	Day      lipgloss.Style
	Entry    lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
}

// EditorTheme groups styles used around the entry textarea.
type EditorTheme struct {
	Title   lipgloss.Style
	Saved   lipgloss.Style
	Pending lipgloss.Style
	Error   lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	Indicator           lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
	CommandSelectedDesc lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color(accentHex)
	selected := lipgloss.Color(blend(accentHex, baseHex, 0.55))

	commandName := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)
	commandDesc := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	return Theme{
		Calendar: CalendarTheme{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
			Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
			Padding:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
			Day:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			Entry:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
			Today:    lipgloss.NewStyle().Underline(true).Foreground(accent),
			Selected: lipgloss.NewStyle().Background(selected).Foreground(lipgloss.Color("0")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Editor: EditorTheme{
			Title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
			Saved:   lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
			Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:              lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Indicator:           lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			CommandName:         commandName,
			CommandDescription:  commandDesc,
			CommandSelectedName: commandName.Reverse(true),
			CommandSelectedDesc: commandDesc.Reverse(true),
		},
	}
}

// blend mixes two hex colors in Luv space; t=0 is a, t=1 is b.
func blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLuv(cb, t).Clamped().Hex()
}
