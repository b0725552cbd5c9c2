package tui

import (
	"sync"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/notify"
	tea "github.com/charmbracelet/bubbletea"
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Relay forwards scheduler observer calls and gateway presentations into a
// program. Events arriving before Attach are dropped; the model loads the
// list itself on start.
type Relay struct {
	mu     sync.Mutex
	sender Sender
}

func (r *Relay) Attach(s Sender) {
	r.mu.Lock()
	r.sender = s
	r.mu.Unlock()
}

func (r *Relay) send(msg tea.Msg) {
	r.mu.Lock()
	s := r.sender
	r.mu.Unlock()
	if s != nil {
		s.Send(msg)
	}
}

// Observe is a scheduler.Observer.
func (r *Relay) Observe(alarms []models.Alarm) {
	r.send(AlarmsMsg(alarms))
}

// Present implements notify.Presenter.
func (r *Relay) Present(n notify.Notification, opts notify.PresentationOptions) {
	r.send(NotificationMsg{Notification: n, Options: opts})
}

var _ notify.Presenter = (*Relay)(nil)
