package tui

import (
	"sort"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyHandler func(m Model) (Model, tea.Cmd, bool)

// KeyBinding ties a key to a handler. Sections limits the binding to rows of
// the given sections; an empty list applies everywhere, including an empty list.
type KeyBinding struct {
	Binding  key.Binding
	Handler  KeyHandler
	Sections []models.Section
	Priority int
}

func (b KeyBinding) AppliesTo(section models.Section) bool {
	if len(b.Sections) == 0 {
		return true
	}
	for _, s := range b.Sections {
		if s == section {
			return true
		}
	}
	return false
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m Model, msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	section := m.selectedSection()
	for _, b := range r.bindings {
		if key.Matches(msg, b.Binding) && b.AppliesTo(section) {
			next, cmd, handled := b.Handler(m)
			if handled {
				return next, cmd, true
			}
		}
	}
	return m, nil, false
}

// BindingsFor returns the enabled bindings usable on a row of section.
func (r *HandlerRegistry) BindingsFor(section models.Section) []key.Binding {
	var out []key.Binding
	seen := make(map[string]bool)
	for _, b := range r.bindings {
		if !b.AppliesTo(section) || !b.Binding.Enabled() {
			continue
		}
		desc := b.Binding.Help().Desc
		if desc == "" || seen[desc] {
			continue
		}
		seen[desc] = true
		out = append(out, b.Binding)
	}
	return out
}

// helpKeys adapts the registry to help.KeyMap for the selected section.
type helpKeys struct {
	bindings []key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding {
	if len(h.bindings) > 6 {
		return h.bindings[:6]
	}
	return h.bindings
}

func (h helpKeys) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for i := 0; i < len(h.bindings); i += 4 {
		end := i + 4
		if end > len(h.bindings) {
			end = len(h.bindings)
		}
		cols = append(cols, h.bindings[i:end])
	}
	return cols
}
