package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/scheduler"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var activeOnly = []models.Section{models.SectionActive}

var withSelection = []models.Section{models.SectionActive, models.SectionScheduled}

func defaultRegistry() *HandlerRegistry {
	r := NewHandlerRegistry()
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Handler:  handleCursor(-1),
		Sections: withSelection,
		Priority: 10,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Handler:  handleCursor(1),
		Sections: withSelection,
		Priority: 10,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter", "complete")),
		Handler:  handleComplete,
		Sections: activeOnly,
		Priority: 9,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Handler:  startInput(modeCreate),
		Priority: 8,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "note")),
		Handler:  startInput(modeNote),
		Sections: activeOnly,
		Priority: 7,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "snooze to next")),
		Handler:  handleDeactivate,
		Sections: activeOnly,
		Priority: 7,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Handler:  startInput(modeRename),
		Sections: withSelection,
		Priority: 6,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "repeat")),
		Handler:  startInput(modeRecurrence),
		Sections: withSelection,
		Priority: 6,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		Handler:  handleMove(-1),
		Sections: activeOnly,
		Priority: 5,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		Handler:  handleMove(1),
		Sections: activeOnly,
		Priority: 5,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Handler:  startInput(modeConfirmDelete),
		Sections: withSelection,
		Priority: 4,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
		Handler:  handleScan,
		Priority: 3,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Handler:  handleDismiss,
		Priority: 2,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Handler:  handleToggleHelp,
		Priority: 1,
	})
	r.Register(KeyBinding{
		Binding:  key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Handler:  func(m Model) (Model, tea.Cmd, bool) { return m, tea.Quit, true },
		Priority: 0,
	})
	return r
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func handleCursor(delta int) KeyHandler {
	return func(m Model) (Model, tea.Cmd, bool) {
		m.cursor = clampCursor(m.cursor+delta, len(m.alarms))
		return m, nil, true
	}
}

func handleComplete(m Model) (Model, tea.Cmd, bool) {
	a, ok := m.selected()
	if !ok {
		return m, nil, false
	}
	status := fmt.Sprintf("Completed %q", a.DisplayText)
	return m, m.run(status, func(ctx context.Context) error {
		_, _, err := m.svc.Complete(ctx, a.ID)
		return err
	}), true
}

func handleDeactivate(m Model) (Model, tea.Cmd, bool) {
	a, ok := m.selected()
	if !ok {
		return m, nil, false
	}
	status := fmt.Sprintf("Snoozed %q until its next occurrence", a.DisplayText)
	return m, m.run(status, func(ctx context.Context) error {
		_, err := m.svc.Deactivate(ctx, a.ID)
		return err
	}), true
}

func handleScan(m Model) (Model, tea.Cmd, bool) {
	return m, m.foregroundEnter(), true
}

func handleDismiss(m Model) (Model, tea.Cmd, bool) {
	if m.banner == "" && m.err == nil && m.status == "" {
		return m, nil, false
	}
	m.banner = ""
	m.status = ""
	m.err = nil
	return m, nil, true
}

func handleToggleHelp(m Model) (Model, tea.Cmd, bool) {
	m.help.ShowAll = !m.help.ShowAll
	return m, nil, true
}

// handleMove swaps the selected active alarm with its active neighbour.
func handleMove(delta int) KeyHandler {
	return func(m Model) (Model, tea.Cmd, bool) {
		target := m.cursor + delta
		if target < 0 || target >= len(m.alarms) || !m.alarms[target].IsActive() {
			return m, nil, true
		}
		alarms := append([]models.Alarm(nil), m.alarms...)
		alarms[m.cursor], alarms[target] = alarms[target], alarms[m.cursor]
		m.alarms = alarms
		m.cursor = target

		var ids []string
		for _, a := range alarms {
			if a.IsActive() {
				ids = append(ids, a.ID)
			}
		}
		return m, m.run("", func(ctx context.Context) error {
			return m.svc.Reorder(ctx, ids)
		}), true
	}
}

func startInput(mode inputMode) KeyHandler {
	return func(m Model) (Model, tea.Cmd, bool) {
		a, hasSelection := m.selected()
		if mode != modeCreate && !hasSelection {
			return m, nil, false
		}
		m.mode = mode
		m.input.Reset()
		switch mode {
		case modeCreate:
			m.input.Placeholder = scheduler.DefaultDisplayText
		case modeRename:
			m.input.Placeholder = "Display text"
			m.input.SetValue(a.DisplayText)
		case modeNote:
			m.input.Placeholder = "Note"
			m.input.SetValue(a.Note.Text)
		case modeRecurrence:
			m.input.Placeholder = "once | daily | weekly:mon"
			m.input.SetValue(a.Recurrence.String())
		case modeConfirmDelete:
			return m, nil, true
		}
		m.input.CursorEnd()
		return m, m.input.Focus(), true
	}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeConfirmDelete {
		a, ok := m.selected()
		m.mode = modeBrowse
		if !ok || !strings.EqualFold(msg.String(), "y") {
			return m, nil
		}
		status := fmt.Sprintf("Deleted %q", a.DisplayText)
		return m, m.run(status, func(ctx context.Context) error {
			return m.svc.Delete(ctx, a.ID)
		})
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	a, _ := m.selected()
	var cmd tea.Cmd

	switch m.mode {
	case modeCreate:
		draft := scheduler.Draft{DisplayText: value}
		cmd = m.run(fmt.Sprintf("Created %q", orDefault(value, scheduler.DefaultDisplayText)), func(ctx context.Context) error {
			_, err := m.svc.Create(ctx, draft)
			return err
		})
	case modeRename:
		if value == "" {
			m.err = fmt.Errorf("display text cannot be empty")
			return m, nil
		}
		cmd = m.run("Renamed", func(ctx context.Context) error {
			_, err := m.svc.Rename(ctx, a.ID, value)
			return err
		})
	case modeNote:
		cmd = m.run("Note saved", func(ctx context.Context) error {
			_, err := m.svc.UpdateNote(ctx, a.ID, value)
			return err
		})
	case modeRecurrence:
		rec, err := models.ParseRecurrence(value)
		if err != nil {
			m.err = err
			return m, nil
		}
		cmd = m.run(fmt.Sprintf("Repeats %s", describeRecurrence(rec)), func(ctx context.Context) error {
			_, err := m.svc.UpdateRecurrence(ctx, a.ID, rec)
			return err
		})
	}
	m.mode = modeBrowse
	m.input.Blur()
	m.err = nil
	return m, cmd
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
