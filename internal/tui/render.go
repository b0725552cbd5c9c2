package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/nudge/internal/config"
	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/scheduler"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func truncateLabel(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= max {
		return text
	}
	return ansi.Truncate(text, max, "…")
}

func describeRecurrence(r models.Recurrence) string {
	switch r.Kind {
	case models.OneShot:
		return "once"
	case models.Daily:
		return "daily"
	case models.Weekly:
		return "every " + r.TimeWeekday().String()[:3]
	}
	return r.String()
}

// relative renders d as a coarse "in 3h" / "5m ago" label.
func relative(d time.Duration) string {
	suffix := ""
	prefix := "in "
	if d < 0 {
		d = -d
		prefix = ""
		suffix = " ago"
	}
	var amount string
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		amount = fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		amount = fmt.Sprintf("%dh", int(d.Hours()))
	default:
		amount = fmt.Sprintf("%dd", int(d.Hours())/24)
	}
	return prefix + amount + suffix
}

func swatch(icon string) string {
	c := scheduler.TileColor(icon)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))).
		Render("●")
}

func (m Model) titleWidth() int {
	if m.width == 0 {
		return config.TargetTitleWidth
	}
	w := m.width - 34
	if w > config.TargetTitleWidth*2 {
		w = config.TargetTitleWidth * 2
	}
	if w < config.MinTitleWidth {
		w = config.MinTitleWidth
	}
	return w
}

func (m Model) renderRow(i int, a models.Alarm) string {
	now := m.now()
	cursor := "  "
	style := m.theme.Alarm
	if !a.IsActive() {
		style = m.theme.Scheduled
	}
	if i == m.cursor {
		cursor = m.theme.Focused.Render("▸ ")
		style = m.theme.Focused
	}

	title := truncateLabel(a.DisplayText, m.titleWidth())
	title += strings.Repeat(" ", max(0, m.titleWidth()-ansi.StringWidth(title)))

	var when string
	if next, ok := a.NextActivation(); ok {
		when = next.In(m.loc).Format("Mon 15:04") + " (" + relative(next.Sub(now)) + ")"
	} else if !a.Note.CreatedAt.IsZero() {
		when = "due " + relative(a.Note.CreatedAt.Sub(now))
	} else {
		when = "due"
	}

	row := fmt.Sprintf("%s%s %s  %-10s %s",
		cursor, swatch(a.Icon), style.Render(title),
		describeRecurrence(a.Recurrence), m.theme.Dim.Render(when))
	if a.IsActive() && a.Note.Text != "" && m.width >= config.CompactModeThreshold {
		row += "\n      " + m.theme.Note.Render(truncateLabel(a.Note.Text, m.titleWidth()+20))
	}
	return row
}

func (m Model) renderSection(title string, section models.Section) string {
	var rows []string
	for i, a := range m.alarms {
		if a.Section() != section {
			continue
		}
		if len(rows) >= config.MaxVisibleAlarms {
			rows = append(rows, m.theme.Dim.Render(config.TruncationSuffix))
			break
		}
		rows = append(rows, m.renderRow(i, a))
	}
	header := m.theme.Section.Render(fmt.Sprintf("%s (%d)", title, countSection(m.alarms, section)))
	if len(rows) == 0 {
		rows = append(rows, m.theme.Dim.Render("  nothing here"))
	}
	return header + "\n" + strings.Join(rows, "\n")
}

func countSection(alarms []models.Alarm, section models.Section) int {
	n := 0
	for _, a := range alarms {
		if a.Section() == section {
			n++
		}
	}
	return n
}

func (m Model) renderInput() string {
	var label string
	switch m.mode {
	case modeCreate:
		label = "New alarm"
	case modeRename:
		label = "Rename"
	case modeNote:
		label = "Note"
	case modeRecurrence:
		label = "Repeat (once, daily, weekly:<day>)"
	case modeConfirmDelete:
		a, _ := m.selected()
		return m.theme.Input.Render(fmt.Sprintf("Delete %q? [y/N]", truncateLabel(a.DisplayText, 30)))
	}
	return m.theme.Input.Render(m.theme.Header.Render(label) + "\n" + m.input.View())
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render(fmt.Sprintf("%s v%s", config.AppName, versionLabel())))
	b.WriteString("\n")
	if m.banner != "" {
		b.WriteString(m.theme.Banner.Render("🔔 " + truncateLabel(m.banner, max(config.MinTitleWidth, m.width-8))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if !m.ready {
		b.WriteString(m.theme.Dim.Render("Loading alarms…"))
	} else {
		b.WriteString(m.renderSection("Active", models.SectionActive))
		b.WriteString("\n\n")
		b.WriteString(m.renderSection("Scheduled", models.SectionScheduled))
	}
	b.WriteString("\n\n")

	if m.mode != modeBrowse {
		b.WriteString(m.renderInput())
		b.WriteString("\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(m.theme.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(m.theme.Dim.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(helpKeys{bindings: m.keys.BindingsFor(m.selectedSection())}))
	return m.theme.Base.Render(b.String())
}
