package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name      string
	Base      lipgloss.Style
	Border    lipgloss.Color
	Header    lipgloss.Style
	Section   lipgloss.Style
	Alarm     lipgloss.Style
	Scheduled lipgloss.Style
	Note      lipgloss.Style
	Banner    lipgloss.Style
	Input     lipgloss.Style
	Error     lipgloss.Style
	Focused   lipgloss.Style
	Dim       lipgloss.Style
}

var Themes = map[string]Theme{
	"default": {
		Name:      "Default",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("63"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Section:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true).Underline(true),
		Alarm:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Scheduled: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Note:      lipgloss.NewStyle().Foreground(lipgloss.Color("180")).Italic(true),
		Banner:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("208")).Bold(true).Padding(0, 1),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1).Width(50),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	},
	"dracula": {
		Name:      "Dracula",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("62"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("50")).Bold(true),
		Section:   lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true).Underline(true),
		Alarm:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Scheduled: lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Note:      lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Italic(true),
		Banner:    lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Background(lipgloss.Color("215")).Bold(true).Padding(0, 1),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("50")).Padding(0, 1).Width(50),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
	},
}

// ThemeByName falls back to the default theme for unknown names.
func ThemeByName(name string) Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Themes["default"]
}
