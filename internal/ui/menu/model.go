// Package menu renders the registrar menu as a Bubble Tea program.
//
// It offers the same six actions as the line-oriented console, collects
// ids and student fields with text inputs, and shows results in a pane
// under the menu. Warnings from the log and external edits to the data
// files surface as toasts.
package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/registrar/internal/console"
	"github.com/zjrosen/registrar/internal/intake"
	"github.com/zjrosen/registrar/internal/keys"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/ui/styles"
	"github.com/zjrosen/registrar/internal/ui/toaster"
)

// MsgReloaded is shown after the data files changed on disk.
const MsgReloaded = "Data reloaded from disk"

type mode int

const (
	modeMenu mode = iota
	modeForm
)

// DataChangedMsg reports that the data files were modified externally.
type DataChangedMsg struct{}

// Model is the Bubble Tea menu.
type Model struct {
	ctx  context.Context
	cmds *console.Commands

	cursor int
	mode   mode
	action console.Choice

	labels []string
	inputs []textinput.Model
	focus  int

	// listing is the list choice shown in the pane, re-rendered on reload.
	listing console.Choice
	title   string
	output  []string
	failed  bool

	toast toaster.Model
	width int

	logs       *log.Listener
	changes    <-chan struct{}
	invalidate func()

	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogListener surfaces warnings and errors from l as toasts.
func WithLogListener(l *log.Listener) Option {
	return func(m *Model) {
		m.logs = l
	}
}

// WithAutoRefresh reloads the registrar whenever changes delivers.
// invalidate runs first so the reload bypasses any read cache; it may be nil.
func WithAutoRefresh(changes <-chan struct{}, invalidate func()) Option {
	return func(m *Model) {
		m.changes = changes
		m.invalidate = invalidate
	}
}

// New creates the menu over cmds.
func New(ctx context.Context, cmds *console.Commands, opts ...Option) Model {
	m := Model{
		ctx:   ctx,
		cmds:  cmds,
		toast: toaster.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the log and file-change listeners.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return DataChangedMsg{}
	}
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.toast = m.toast.SetWidth(msg.Width)
		return m, nil

	case toaster.DismissMsg:
		m.toast = m.toast.Update(msg)
		return m, nil

	case log.Event:
		return m.handleLogEntry(msg.Payload)

	case DataChangedMsg:
		return m.reload()

	case tea.KeyMsg:
		if key.Matches(msg, keys.Common.ForceQuit) {
			return m.quit()
		}
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updateMenu(msg)
	}

	if m.mode == modeForm {
		return m.forwardToInput(msg)
	}
	return m, nil
}

func (m Model) handleLogEntry(e log.Entry) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if m.logs != nil {
		next = m.logs.Listen()
	}
	if e.Level < log.LevelWarn {
		return m, next
	}
	style := toaster.StyleWarn
	if e.Level >= log.LevelError {
		style = toaster.StyleError
	}
	m.toast = m.toast.Show(fmt.Sprintf("[%s] %s", e.Category, e.Message), style)
	return m, tea.Batch(next, m.toast.ScheduleDismiss(toaster.DefaultDuration))
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.invalidate != nil {
		m.invalidate()
	}
	var cmds []tea.Cmd
	if m.cmds.Registrar().Reload(m.ctx) {
		if m.listing != 0 {
			m = m.showListing(m.listing)
		}
		log.Info(log.CatUI, "Reloaded after external change")
		m.toast = m.toast.Show(MsgReloaded, toaster.StyleInfo)
		cmds = append(cmds, m.toast.ScheduleDismiss(toaster.DefaultDuration))
	}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Menu.Quit):
		return m.quit()
	case key.Matches(msg, keys.Menu.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Menu.Down):
		if m.cursor < len(console.MenuItems)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Menu.Select):
		return m.choose(console.Choice(m.cursor + 1))
	case key.Matches(msg, keys.Menu.Choose):
		choice := console.Choice(msg.String()[0] - '0')
		if choice.Label() == "" {
			m = m.showResult("", console.MsgInvalid, true)
			return m, nil
		}
		m.cursor = int(choice) - 1
		return m.choose(choice)
	}
	return m, nil
}

func (m Model) choose(choice console.Choice) (tea.Model, tea.Cmd) {
	switch choice {
	case console.ChoiceListCourses, console.ChoiceListStudents:
		return m.showListing(choice), nil
	case console.ChoiceEnroll, console.ChoiceDrop:
		return m.openForm(choice, "Student ID", "Course Code")
	case console.ChoiceAddStudent:
		return m.openForm(choice, "Student ID (blank to generate)", "Name", "Email", "Program")
	case console.ChoiceExit:
		return m.quit()
	}
	return m, nil
}

func (m Model) showListing(choice console.Choice) Model {
	var lines []string
	if choice == console.ChoiceListCourses {
		lines = m.cmds.CourseLines()
	} else {
		lines = m.cmds.StudentLines()
	}
	m.listing = choice
	m.title = choice.Label()
	m.output = lines
	m.failed = false
	return m
}

func (m Model) showResult(title, line string, failed bool) Model {
	m.listing = 0
	m.title = title
	m.output = []string{line}
	m.failed = failed
	return m
}

func (m Model) openForm(choice console.Choice, labels ...string) (tea.Model, tea.Cmd) {
	m.mode = modeForm
	m.action = choice
	m.labels = labels
	m.inputs = make([]textinput.Model, len(labels))
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 120
		m.inputs[i] = in
	}
	m.focus = 0
	return m, m.inputs[0].Focus()
}

func (m Model) closeForm() Model {
	m.mode = modeMenu
	m.action = 0
	m.labels = nil
	m.inputs = nil
	m.focus = 0
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Form.Cancel):
		return m.closeForm(), nil
	case key.Matches(msg, keys.Form.Next):
		return m.setFocus(m.focus + 1)
	case key.Matches(msg, keys.Form.Prev):
		return m.setFocus(m.focus - 1)
	case key.Matches(msg, keys.Form.Submit):
		if m.focus < len(m.inputs)-1 {
			return m.setFocus(m.focus + 1)
		}
		return m.submit()
	}
	return m.forwardToInput(msg)
}

func (m Model) forwardToInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) setFocus(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.inputs) {
		return m, nil
	}
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[i].Focus()
}

func (m Model) values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	action := m.action
	v := m.values()
	m = m.closeForm()

	var (
		err     error
		success string
	)
	switch action {
	case console.ChoiceEnroll:
		err = m.cmds.Enroll(m.ctx, v[0], v[1])
		success = console.MsgEnrolled
	case console.ChoiceDrop:
		err = m.cmds.Drop(m.ctx, v[0], v[1])
		success = console.MsgDropped
	case console.ChoiceAddStudent:
		var id string
		id, err = m.cmds.AddStudent(m.ctx, intake.StudentInput{ID: v[0], Name: v[1], Email: v[2], Program: v[3]})
		success = console.MsgStudentAdded
		if err == nil {
			success = fmt.Sprintf("%s (%s)", console.MsgStudentAdded, id)
		}
	}

	if err != nil {
		log.Debug(log.CatUI, "Action failed", "action", action.Label(), "error", err.Error())
		m = m.showResult(action.Label(), "Error: "+err.Error(), true)
		m.toast = m.toast.Show(err.Error(), toaster.StyleError)
	} else {
		m = m.showResult(action.Label(), success, false)
		m.toast = m.toast.Show(success, toaster.StyleSuccess)
	}
	return m, m.toast.ScheduleDismiss(toaster.DefaultDuration)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// Quitting reports whether the menu has exited.
func (m Model) Quitting() bool {
	return m.quitting
}

// Output returns the lines currently shown in the result pane.
func (m Model) Output() []string {
	return m.output
}

// View renders the menu.
func (m Model) View() string {
	if m.quitting {
		return console.MsgGoodbye + "\n"
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(console.Welcome))
	b.WriteString("\n\n")

	for i, item := range console.MenuItems {
		line := fmt.Sprintf("%d. %s", i+1, item)
		if i == m.cursor && m.mode == modeMenu {
			b.WriteString(styles.SelectionIndicatorStyle.Render(">") + " " + styles.SelectedItemStyle.Render(line))
		} else {
			b.WriteString("  " + styles.ItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.mode == modeForm {
		b.WriteString("\n")
		b.WriteString(m.viewForm())
	}

	if len(m.output) > 0 {
		b.WriteString("\n")
		b.WriteString(m.viewPane())
		b.WriteString("\n")
	}

	if toast := m.toast.View(); toast != "" {
		b.WriteString("\n")
		b.WriteString(toast)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(m.help()))
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.action.Label()))
	b.WriteString("\n")
	for i, label := range m.labels {
		style := styles.LabelStyle
		if i == m.focus {
			style = styles.FocusedLabelStyle
		}
		b.WriteString(style.Render(label + ": "))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewPane() string {
	lines := make([]string, 0, len(m.output)+1)
	if m.title != "" {
		lines = append(lines, styles.TitleStyle.Render(m.title))
	}
	for _, line := range m.output {
		switch {
		case m.failed:
			lines = append(lines, styles.ErrorStyle.Render(line))
		case m.listing != 0:
			lines = append(lines, " - "+line)
		default:
			lines = append(lines, styles.SuccessStyle.Render(line))
		}
	}
	pane := styles.PaneStyle
	if m.width > 4 {
		pane = pane.MaxWidth(m.width)
	}
	return pane.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) help() string {
	if m.mode == modeForm {
		return keys.HelpLine(keys.Form.ShortHelp())
	}
	return keys.HelpLine(keys.Menu.ShortHelp())
}
