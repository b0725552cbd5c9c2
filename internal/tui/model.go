// Package tui is the interactive terminal host for the scheduler. It drives
// the process-ready and foreground lifecycle hooks and lets the user work
// through the alarm list.
package tui

import (
	"context"
	"time"

	"github.com/akyairhashvil/nudge/internal/config"
	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/notify"
	"github.com/akyairhashvil/nudge/internal/scheduler"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Service is the scheduler surface the TUI needs.
type Service interface {
	List(ctx context.Context) ([]models.Alarm, error)
	Create(ctx context.Context, d scheduler.Draft) (models.Alarm, error)
	Complete(ctx context.Context, id string) (models.Alarm, bool, error)
	Deactivate(ctx context.Context, id string) (models.Alarm, error)
	UpdateRecurrence(ctx context.Context, id string, rec models.Recurrence) (models.Alarm, error)
	UpdateNote(ctx context.Context, id, text string) (models.Alarm, error)
	Rename(ctx context.Context, id, text string) (models.Alarm, error)
	Reorder(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) error
	OnProcessReady(ctx context.Context) error
	OnForegroundEnter(ctx context.Context) error
}

// AlarmsMsg carries a fresh alarm list.
type AlarmsMsg []models.Alarm

// NotificationMsg is a delivered notification to show.
type NotificationMsg struct {
	Notification notify.Notification
	Options      notify.PresentationOptions
}

type errMsg struct{ err error }

// loadedMsg is the list reloaded after an action, with its status line.
type loadedMsg struct {
	alarms []models.Alarm
	status string
}

type tickMsg time.Time

type inputMode int

const (
	modeBrowse inputMode = iota
	modeCreate
	modeRename
	modeNote
	modeRecurrence
	modeConfirmDelete
)

type Option func(*Model)

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = ThemeByName(name) }
}

func WithLocation(loc *time.Location) Option {
	return func(m *Model) {
		if loc != nil {
			m.loc = loc
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	svc    Service
	keys   *HandlerRegistry
	help   help.Model
	input  textinput.Model
	theme  Theme
	loc    *time.Location
	now    func() time.Time
	alarms []models.Alarm
	cursor int
	mode   inputMode
	banner string
	status string
	err    error
	width  int
	height int
	ready  bool
}

func NewModel(ctx context.Context, svc Service, opts ...Option) Model {
	ti := textinput.New()
	ti.CharLimit = config.MaxTitleLength
	ti.Width = 46
	m := Model{
		ctx:   ctx,
		svc:   svc,
		keys:  defaultRegistry(),
		help:  help.New(),
		input: ti,
		theme: Themes["default"],
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init fires the process-ready hook; the list loads once it completes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.processReady(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(config.RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.FocusMsg:
		return m, m.foregroundEnter()
	case tea.BlurMsg:
		return m, nil
	case tickMsg:
		return m, tick()
	case AlarmsMsg:
		m.setAlarms(msg)
		m.ready = true
		return m, nil
	case NotificationMsg:
		if msg.Options.Has(notify.PresentAlert) {
			m.banner = msg.Notification.Title
			if msg.Notification.Body != "" {
				m.banner += ": " + msg.Notification.Body
			}
		}
		if msg.Options.Has(notify.PresentSound) {
			return m, tea.Printf("\a")
		}
		return m, nil
	case loadedMsg:
		m.setAlarms(msg.alarms)
		m.ready = true
		m.status = msg.status
		m.err = nil
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		m.err = nil
		next, cmd, handled := m.keys.Handle(m, msg)
		if handled {
			return next, cmd
		}
		return m, nil
	}
	if m.mode != modeBrowse {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setAlarms(alarms []models.Alarm) {
	selected := ""
	if a, ok := m.selected(); ok {
		selected = a.ID
	}
	m.alarms = alarms
	m.cursor = clampCursor(m.cursor, len(alarms))
	for i, a := range alarms {
		if a.ID == selected {
			m.cursor = i
			break
		}
	}
}

func (m Model) selected() (models.Alarm, bool) {
	if m.cursor < 0 || m.cursor >= len(m.alarms) {
		return models.Alarm{}, false
	}
	return m.alarms[m.cursor], true
}

func (m Model) selectedSection() models.Section {
	a, ok := m.selected()
	if !ok {
		return ""
	}
	return a.Section()
}

// Commands. Every service call runs off the update loop.

func (m Model) reload(status string) tea.Msg {
	alarms, err := m.svc.List(m.ctx)
	if err != nil {
		return errMsg{err}
	}
	return loadedMsg{alarms: alarms, status: status}
}

func (m Model) processReady() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.OnProcessReady(m.ctx); err != nil {
			return errMsg{err}
		}
		return m.reload("")
	}
}

func (m Model) foregroundEnter() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.OnForegroundEnter(m.ctx); err != nil {
			return errMsg{err}
		}
		return m.reload("")
	}
}

// run executes fn and reloads the list, reporting status on success.
func (m Model) run(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(m.ctx); err != nil {
			return errMsg{err}
		}
		return m.reload(status)
	}
}
