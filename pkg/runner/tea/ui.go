package teaui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tableflip.dev/calendiary/pkg/app"
	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/editor"
	"tableflip.dev/calendiary/pkg/month"
	"tableflip.dev/calendiary/pkg/runner/tea/internal/bottombar"
	"tableflip.dev/calendiary/pkg/runner/tea/internal/monthview"
	"tableflip.dev/calendiary/pkg/runner/tea/internal/theme"
)

type mode int

const (
	modeCalendar mode = iota
	modeEditor
	modeCommand
	modeHelp
)

// messages
type snapshotMsg struct {
	snap month.Snapshot
	// feed is set when the snapshot came from the navigator's update
	// channel, which then needs another listener.
	feed bool
}
type editorStateMsg struct{ ed *editor.Editor }
type editorClosedMsg struct {
	date calendar.Date
	err  error
	quit bool
}

var commandDefinitions = []bottombar.CommandOption{
	{Name: "today", Description: "jump to today"},
	{Name: "goto", Description: "goto 2024-01 or 2024-01-15"},
	{Name: "refresh", Description: "reload the month"},
	{Name: "quit", Description: "leave calendiary"},
}

// Model contains UI state.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	nav   *month.Navigator
	log   zerolog.Logger
	delay time.Duration
	theme theme.Theme

	calKeys calendarKeys
	edKeys  editorKeys
	help    help.Model

	mode     mode
	snap     month.Snapshot
	selected calendar.Date

	ed      *editor.Editor
	edState editor.State
	flushes *sync.WaitGroup
	area    textarea.Model
	input   textinput.Model
	footer  bottombar.Model

	status     string
	termWidth  int
	termHeight int
}

// Option configures a Model.
type Option func(*Model)

// WithContext bounds the storage calls made by the UI.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithLogger sets the logger handed to editors.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithAutoSave sets the editor debounce window.
func WithAutoSave(d time.Duration) Option {
	return func(m *Model) { m.delay = d }
}

// New creates the UI model. nav drives the calendar screen and editors are
// opened over svc.Storage.
func New(svc *app.Service, nav *month.Navigator, opts ...Option) Model {
	area := textarea.New()
	area.Placeholder = "Write about your day..."
	area.ShowLineNumbers = false
	area.CharLimit = 0

	ti := textinput.New()
	ti.Placeholder = "command"
	ti.Prompt = ""
	ti.CharLimit = 64

	th := theme.Default()
	m := Model{
		ctx:      context.Background(),
		svc:      svc,
		nav:      nav,
		log:      zerolog.Nop(),
		delay:    editor.DefaultDelay,
		theme:    th,
		calKeys:  defaultCalendarKeys(),
		edKeys:   defaultEditorKeys(),
		help:     help.New(),
		mode:     modeCalendar,
		snap:     nav.Current(),
		selected: svc.Today(),
		area:     area,
		input:    ti,
		flushes:  &sync.WaitGroup{},
		footer:   bottombar.New(th.Footer),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.footer.SetCommandDefinitions(commandDefinitions)
	m.syncFooter()
	return m
}

// Init starts listening to the navigator and loads the first month.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.nav), m.navigate(m.nav.Refresh))
}

func waitForSnapshot(nav *month.Navigator) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snap: <-nav.Updates(), feed: true}
	}
}

func waitForEditor(ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ed.Updates(); !ok {
			return nil
		}
		return editorStateMsg{ed: ed}
	}
}

// navigate runs a navigator move off the UI loop and reports the latest
// snapshot once it is done.
func (m Model) navigate(move func(context.Context) month.Snapshot) tea.Cmd {
	ctx, nav := m.ctx, m.nav
	return func() tea.Msg {
		move(ctx)
		return snapshotMsg{snap: nav.Current()}
	}
}

func (m Model) show(year int, mon time.Month) tea.Cmd {
	nav := m.nav
	return m.navigate(func(ctx context.Context) month.Snapshot {
		return nav.Show(ctx, year, mon)
	})
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case snapshotMsg:
		m.snap = msg.snap
		if msg.feed {
			cmds = append(cmds, waitForSnapshot(m.nav))
		}
	case editorStateMsg:
		if msg.ed != m.ed {
			break
		}
		m.syncEditor()
		cmds = append(cmds, waitForEditor(msg.ed))
	case editorClosedMsg:
		if msg.err != nil {
			m.status = "ERR: " + msg.err.Error()
		}
		if msg.quit {
			return m, tea.Quit
		}
		cmds = append(cmds, m.navigate(m.nav.Refresh))
	case tea.KeyMsg:
		switch m.mode {
		case modeEditor:
			cmds = append(cmds, m.updateEditor(msg))
		case modeCommand:
			cmds = append(cmds, m.updateCommand(msg))
		case modeHelp:
			switch msg.String() {
			case "?", "esc", "q":
				m.mode = modeCalendar
			case "ctrl+c":
				return m, tea.Quit
			}
		default:
			cmds = append(cmds, m.updateCalendar(msg))
		}
	default:
		var cmd tea.Cmd
		switch m.mode {
		case modeEditor:
			m.area, cmd = m.area.Update(msg)
		case modeCommand:
			m.input, cmd = m.input.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	m.syncFooter()
	return m, tea.Batch(cmds...)
}

func (m *Model) updateCalendar(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.calKeys.Left):
		return m.moveSelection(-1)
	case key.Matches(msg, m.calKeys.Right):
		return m.moveSelection(1)
	case key.Matches(msg, m.calKeys.Up):
		return m.moveSelection(-7)
	case key.Matches(msg, m.calKeys.Down):
		return m.moveSelection(7)
	case key.Matches(msg, m.calKeys.PrevMonth):
		m.selectIn(calendar.PreviousMonth(m.snap.Year, m.snap.Month))
		return m.navigate(m.nav.Previous)
	case key.Matches(msg, m.calKeys.NextMonth):
		m.selectIn(calendar.NextMonth(m.snap.Year, m.snap.Month))
		return m.navigate(m.nav.Next)
	case key.Matches(msg, m.calKeys.Today):
		m.selected = m.svc.Today()
		return m.navigate(m.nav.Today)
	case key.Matches(msg, m.calKeys.Open):
		return m.openEditor(m.selected)
	case key.Matches(msg, m.calKeys.Refresh):
		return m.navigate(m.nav.Refresh)
	case key.Matches(msg, m.calKeys.Command):
		return m.enterCommandMode()
	case key.Matches(msg, m.calKeys.Help):
		m.mode = modeHelp
	case key.Matches(msg, m.calKeys.Quit):
		return tea.Quit
	}
	return nil
}

// moveSelection moves the selected day, following it into the adjacent
// month when it leaves the one on display.
func (m *Model) moveSelection(days int) tea.Cmd {
	m.selected = m.selected.AddDays(days)
	if m.selected.SameMonth(m.snap.Year, m.snap.Month) {
		return nil
	}
	return m.show(m.selected.Year, m.selected.Month)
}

// selectIn keeps the selected day of month when switching months, clamped
// to the length of the new month.
func (m *Model) selectIn(year int, mon time.Month) {
	day := m.selected.Day
	if n := calendar.DaysIn(year, mon); day > n {
		day = n
	}
	m.selected = calendar.NewDate(year, mon, day)
}

func (m *Model) openEditor(date calendar.Date) tea.Cmd {
	m.ed = editor.New(m.ctx, date, m.svc.Storage,
		editor.WithDelay(m.delay),
		editor.WithLogger(m.log),
	)
	m.edState = m.ed.State()
	m.mode = modeEditor
	m.status = ""
	m.area.Reset()
	return tea.Batch(m.area.Focus(), waitForEditor(m.ed), textarea.Blink)
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.edKeys.Close):
		return m.closeEditor(false)
	case key.Matches(msg, m.edKeys.Quit):
		return m.closeEditor(true)
	case key.Matches(msg, m.edKeys.Save):
		m.ed.Save()
		return nil
	case key.Matches(msg, m.edKeys.Delete):
		m.ed.Delete()
		return nil
	}

	before := m.area.Value()
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	if after := m.area.Value(); after != before {
		m.ed.Edit(after)
		m.edState = m.ed.State()
	}
	return cmd
}

// syncEditor pulls the editor state and replaces the textarea content when
// the editor holds persisted content the textarea does not show yet: the
// loaded entry, or an empty page after a delete.
func (m *Model) syncEditor() {
	s := m.ed.State()
	m.edState = s
	if !s.Loading && !s.HasUnsavedChanges && s.Content != m.area.Value() {
		m.area.SetValue(s.Content)
	}
}

// closeEditor leaves the editor right away; the flush runs in the
// background and reports through editorClosedMsg.
func (m *Model) closeEditor(quit bool) tea.Cmd {
	ed := m.ed
	m.ed = nil
	m.area.Blur()
	m.mode = modeCalendar
	if ed == nil {
		if quit {
			return tea.Quit
		}
		return nil
	}
	ctx, flushes := m.ctx, m.flushes
	flushes.Add(1)
	return func() tea.Msg {
		defer flushes.Done()
		return editorClosedMsg{date: ed.Date(), err: ed.Close(ctx), quit: quit}
	}
}

func (m *Model) enterCommandMode() tea.Cmd {
	m.mode = modeCommand
	m.input.Reset()
	m.footer.SetMode(bottombar.ModeCommand)
	m.footer.UpdateCommandInput("", m.input.View())
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) exitCommandMode() {
	m.mode = modeCalendar
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) updateCommand(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.exitCommandMode()
		m.status = "Command cancelled"
		return nil
	case "enter":
		input := m.input.Value()
		m.exitCommandMode()
		return m.runCommand(input)
	case "tab":
		if opts := m.footer.Suggestions(); len(opts) > 0 {
			m.input.SetValue(opts[0].Name + " ")
			m.input.CursorEnd()
		}
		m.footer.UpdateCommandInput(m.input.Value(), m.input.View())
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.footer.UpdateCommandInput(m.input.Value(), m.input.View())
	return cmd
}

func (m *Model) runCommand(input string) tea.Cmd {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	name := ""
	for _, opt := range commandDefinitions {
		if strings.HasPrefix(opt.Name, strings.ToLower(fields[0])) {
			name = opt.Name
			break
		}
	}

	switch name {
	case "quit":
		return tea.Quit
	case "today":
		m.selected = m.svc.Today()
		return m.navigate(m.nav.Today)
	case "refresh":
		return m.navigate(m.nav.Refresh)
	case "goto":
		if len(fields) < 2 {
			m.status = "usage: goto 2024-01 or goto 2024-01-15"
			return nil
		}
		date, err := parseGoto(fields[1])
		if err != nil {
			m.status = err.Error()
			return nil
		}
		m.selected = date
		return m.show(date.Year, date.Month)
	}
	m.status = fmt.Sprintf("Unknown command: %s", input)
	return nil
}

func parseGoto(v string) (calendar.Date, error) {
	if d, err := calendar.ParseDate(v); err == nil {
		return d, nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("cannot go to %q", v)
	}
	return calendar.NewDate(t.Year(), t.Month(), 1), nil
}

// View renders the calendar or the editor, plus the footer.
func (m Model) View() string {
	var body string
	switch m.mode {
	case modeEditor:
		body = m.editorView()
	case modeHelp:
		body = m.calendarView() + "\n\n" + m.help.FullHelpView(m.calKeys.FullHelp())
	default:
		body = m.calendarView()
	}
	footer, _ := m.footer.View()
	return body + "\n\n" + footer
}

func (m Model) calendarView() string {
	styles := m.theme.Calendar
	title := m.snap.Title()
	if m.snap.Loading {
		title += " ..."
	}
	lines := []string{styles.Title.Render(title)}

	if len(m.snap.Grid.Days) == 0 {
		lines = append(lines, styles.Header.Render(monthview.Header()), "Loading...")
	} else {
		lines = append(lines, monthview.Render(m.snap.Grid, m.selected, monthview.Options{
			HeaderStyle:   styles.Header,
			PaddingStyle:  styles.Padding,
			DayStyle:      styles.Day,
			EntryStyle:    styles.Entry,
			TodayStyle:    styles.Today,
			SelectedStyle: styles.Selected,
			ShowHeader:    true,
		}))
	}
	if m.snap.Err != nil {
		lines = append(lines, "", styles.Error.Render(m.snap.Err.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) editorView() string {
	styles := m.theme.Editor
	s := m.edState

	indicator := styles.Saved.Render(editorIndicator(s))
	switch s.Phase() {
	case editor.PhaseError:
		indicator = styles.Error.Render(s.ErrorMessage())
	case editor.PhaseLoading, editor.PhaseSaving:
		indicator = styles.Pending.Render(editorIndicator(s))
	default:
		if s.HasUnsavedChanges {
			indicator = styles.Pending.Render(editorIndicator(s))
		}
	}

	header := styles.Title.Render(s.DateDisplay) + "  " + indicator
	return header + "\n\n" + m.area.View()
}

func editorIndicator(s editor.State) string {
	switch s.Phase() {
	case editor.PhaseLoading:
		return "loading..."
	case editor.PhaseSaving:
		return "saving..."
	case editor.PhaseError:
		return "error"
	}
	if s.HasUnsavedChanges {
		return "unsaved"
	}
	return "saved"
}

func (m *Model) syncFooter() {
	switch m.mode {
	case modeEditor:
		m.footer.SetMode(bottombar.ModeEditor)
		m.footer.SetHelp(m.help.ShortHelpView(m.edKeys.ShortHelp()))
		m.footer.SetIndicator(editorIndicator(m.edState))
	case modeCommand:
		m.footer.SetMode(bottombar.ModeCommand)
	case modeHelp:
		m.footer.SetMode(bottombar.ModeHelp)
		m.footer.SetHelp("esc/? close help")
		m.footer.SetIndicator("")
	default:
		m.footer.SetMode(bottombar.ModeCalendar)
		m.footer.SetHelp(m.help.ShortHelpView(m.calKeys.ShortHelp()))
		m.footer.SetIndicator(calendar.FormatLong(m.selected))
	}
	m.footer.SetStatus(m.status)
}

// applySizes recalculates the textarea and help widths based on the
// current terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	m.help.Width = m.termWidth
	m.footer.SetWidth(m.termWidth)

	width := m.termWidth - 2
	if width > 100 {
		width = 100
	}
	if width < 20 {
		width = 20
	}
	// Leave room for the date header and footer.
	height := m.termHeight - 4 - m.footer.Height()
	if height < 3 {
		height = 3
	}
	m.area.SetWidth(width)
	m.area.SetHeight(height)
}
