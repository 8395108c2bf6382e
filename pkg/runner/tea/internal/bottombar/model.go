package bottombar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/calendiary/pkg/runner/tea/internal/theme"
)

// Mode represents the UI mode that influences footer layout.
type Mode int

const (
	ModeCalendar Mode = iota
	ModeEditor
	ModeCommand
	ModeHelp
)

// CommandOption describes a command palette entry.
type CommandOption struct {
	Name        string
	Description string
}

// Model tracks footer/help/status rendering state.
type Model struct {
	styles          theme.FooterTheme
	mode            Mode
	helpLine        string
	statusLine      string
	indicator       string
	commandInput    string
	commandView     string
	commandOptions  []CommandOption
	filteredOptions []CommandOption
	maxSuggestions  int
	width           int
}

// New returns a footer model using the given styles.
func New(styles theme.FooterTheme) Model {
	return Model{
		styles:         styles,
		mode:           ModeCalendar,
		maxSuggestions: 6,
	}
}

// Mode reports the current mode.
func (m Model) Mode() Mode { return m.mode }

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	if mode != ModeCommand {
		m.filteredOptions = nil
		m.commandInput = ""
		m.commandView = ""
	} else {
		m.filterSuggestions("")
	}
}

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
}

// SetIndicator sets the right-most segment, e.g. the save state.
func (m *Model) SetIndicator(indicator string) {
	m.indicator = indicator
}

// SetWidth sets the terminal width. With a width the indicator is pushed to
// the right edge and the left segments are cut to fit.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// SetCommandDefinitions configures the available command palette entries.
func (m *Model) SetCommandDefinitions(cmds []CommandOption) {
	m.commandOptions = cmds
	m.filterSuggestions(m.commandInput)
}

// UpdateCommandInput refreshes the command palette filter and rendered line.
func (m *Model) UpdateCommandInput(value string, view string) {
	m.commandInput = value
	m.commandView = ":" + view
	m.filterSuggestions(value)
}

// Suggestions returns the palette entries matching the current input.
func (m Model) Suggestions() []CommandOption {
	return m.filteredOptions
}

// Height reports the number of lines consumed by the footer.
func (m Model) Height() int {
	switch m.mode {
	case ModeCommand:
		lines := len(m.filteredOptions)
		if lines > m.maxSuggestions {
			lines = m.maxSuggestions
		}
		// Include command input line.
		return lines + 1
	default:
		return 1
	}
}

// View renders the footer string and reports lines consumed.
func (m Model) View() (string, int) {
	switch m.mode {
	case ModeCommand:
		return m.renderCommandMode()
	default:
		return m.renderStatusLine(), 1
	}
}

func (m Model) renderStatusLine() string {
	var left []string
	if m.helpLine != "" {
		left = append(left, m.styles.Help.Render(m.helpLine))
	}
	if m.statusLine != "" {
		left = append(left, m.styles.Status.Render(m.statusLine))
	}
	right := ""
	if m.indicator != "" {
		right = m.styles.Indicator.Render(m.indicator)
	}

	if m.width <= 0 {
		segments := left
		if right != "" {
			segments = append(segments, right)
		}
		if len(segments) == 0 {
			return " "
		}
		return strings.Join(segments, " │ ")
	}

	l := strings.Join(left, " │ ")
	rw := lipgloss.Width(right)
	if rw >= m.width {
		return truncate.StringWithTail(right, uint(m.width), "…")
	}
	room := m.width - rw - 1
	if lipgloss.Width(l) > room {
		l = truncate.StringWithTail(l, uint(room), "…")
	}
	gap := m.width - lipgloss.Width(l) - rw
	if gap < 1 {
		gap = 1
	}
	return l + strings.Repeat(" ", gap) + right
}

func (m Model) renderCommandMode() (string, int) {
	var lines []string
	if len(m.filteredOptions) == 0 && m.statusLine != "" {
		lines = append(lines, m.styles.Status.Render(m.statusLine))
	} else {
		limit := m.maxSuggestions
		if limit > len(m.filteredOptions) {
			limit = len(m.filteredOptions)
		}
		for i := 0; i < limit; i++ {
			opt := m.filteredOptions[i]
			nameStyle, descStyle := m.styles.CommandName, m.styles.CommandDescription
			if i == 0 && m.commandInput != "" {
				nameStyle, descStyle = m.styles.CommandSelectedName, m.styles.CommandSelectedDesc
			}
			name := nameStyle.Render(":" + opt.Name)
			if opt.Description == "" {
				lines = append(lines, name)
			} else {
				lines = append(lines, name+"  "+descStyle.Render(opt.Description))
			}
		}
	}
	commandLine := m.commandView
	if commandLine == "" {
		commandLine = ":"
	}
	lines = append(lines, commandLine)
	return strings.Join(lines, "\n"), len(lines)
}

func (m *Model) filterSuggestions(input string) {
	if m.mode != ModeCommand {
		m.filteredOptions = nil
		return
	}
	fields := strings.Fields(input)
	if len(fields) == 0 {
		m.filteredOptions = append([]CommandOption(nil), m.commandOptions...)
		return
	}
	prefix := strings.ToLower(fields[0])
	m.filteredOptions = m.filteredOptions[:0]
	for _, opt := range m.commandOptions {
		if strings.HasPrefix(strings.ToLower(opt.Name), prefix) {
			m.filteredOptions = append(m.filteredOptions, opt)
		}
	}
}
