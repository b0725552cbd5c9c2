package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrAlarmNotFound = errors.New("alarm not found")
	ErrNotActive     = errors.New("alarm is not active")
)

// InvariantViolation is the panic value for programmer errors in the alarm
// state machine. It is never returned as an error.
type InvariantViolation struct {
	Op     string
	Reason string
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", v.Op, v.Reason)
}

// RecurrenceKind enumerates the supported recurrence rules.
type RecurrenceKind int

const (
	OneShot RecurrenceKind = iota
	Daily
	Weekly
)

// Recurrence is a rule for computing an alarm's next activation.
// Weekday is only meaningful for Weekly and runs 1=Monday .. 7=Sunday.
type Recurrence struct {
	Kind    RecurrenceKind
	Weekday int
}

var weekdayNames = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func OneShotRecurrence() Recurrence { return Recurrence{Kind: OneShot} }

func DailyRecurrence() Recurrence { return Recurrence{Kind: Daily} }

func WeeklyRecurrence(day int) Recurrence { return Recurrence{Kind: Weekly, Weekday: day} }

// IsRecurring reports whether the rule produces a next occurrence.
func (r Recurrence) IsRecurring() bool {
	return r.Kind == Daily || r.Kind == Weekly
}

func (r Recurrence) Validate() error {
	switch r.Kind {
	case OneShot, Daily:
		return nil
	case Weekly:
		if r.Weekday < 1 || r.Weekday > 7 {
			return fmt.Errorf("weekday %d out of range 1..7", r.Weekday)
		}
		return nil
	default:
		return fmt.Errorf("unknown recurrence kind %d", r.Kind)
	}
}

// TimeWeekday maps the 1..7 weekday onto time.Weekday.
func (r Recurrence) TimeWeekday() time.Weekday {
	return time.Weekday(r.Weekday % 7)
}

func (r Recurrence) String() string {
	switch r.Kind {
	case OneShot:
		return "once"
	case Daily:
		return "daily"
	case Weekly:
		if r.Weekday >= 1 && r.Weekday <= 7 {
			return "weekly:" + weekdayNames[r.Weekday-1]
		}
		return fmt.Sprintf("weekly:%d", r.Weekday)
	}
	return "unknown"
}

// ParseRecurrence accepts "once", "daily" and "weekly:<day>" where day is a
// three letter name or a number 1..7.
func ParseRecurrence(s string) (Recurrence, error) {
	rule := strings.ToLower(strings.TrimSpace(s))
	switch {
	case rule == "once" || rule == "oneshot" || rule == "one-shot":
		return OneShotRecurrence(), nil
	case rule == "daily":
		return DailyRecurrence(), nil
	case strings.HasPrefix(rule, "weekly:"):
		day := strings.TrimPrefix(rule, "weekly:")
		for i, name := range weekdayNames {
			if day == name {
				return WeeklyRecurrence(i + 1), nil
			}
		}
		var n int
		if _, err := fmt.Sscanf(day, "%d", &n); err == nil {
			rec := WeeklyRecurrence(n)
			if err := rec.Validate(); err != nil {
				return Recurrence{}, err
			}
			return rec, nil
		}
	}
	return Recurrence{}, fmt.Errorf("unrecognised recurrence %q", s)
}

// State is either Active or Scheduled at a point in time.
type State struct {
	scheduled bool
	next      time.Time
}

func ActiveState() State { return State{} }

func ScheduledState(next time.Time) State {
	return State{scheduled: true, next: next}
}

func (s State) IsActive() bool { return !s.scheduled }

// NextActivation returns the scheduled instant; ok is false while active.
func (s State) NextActivation() (time.Time, bool) {
	return s.next, s.scheduled
}

func (s State) String() string {
	if !s.scheduled {
		return "active"
	}
	return "scheduled(" + s.next.UTC().Format(time.RFC3339) + ")"
}

// Section is the display partition derived from state.
type Section string

const (
	SectionActive    Section = "active"
	SectionScheduled Section = "scheduled"
)

// Note is the free-text note attached to an active alarm.
type Note struct {
	Text      string
	CreatedAt time.Time
}

// Alarm is a one-shot or recurring reminder.
type Alarm struct {
	ID             string
	Recurrence     Recurrence
	SortOrder      int
	DisplayText    string
	Icon           string
	Note           Note
	NotificationID string
	CreatedAt      time.Time

	state State
}

// State returns the current state. Mutate it through Activate and Deactivate.
func (a Alarm) State() State { return a.state }

func (a Alarm) IsActive() bool { return a.state.IsActive() }

func (a Alarm) NextActivation() (time.Time, bool) { return a.state.NextActivation() }

func (a Alarm) Section() Section {
	if a.state.IsActive() {
		return SectionActive
	}
	return SectionScheduled
}

// IsDue reports whether a scheduled alarm has reached its activation instant.
func (a Alarm) IsDue(now time.Time) bool {
	next, ok := a.state.NextActivation()
	return ok && !next.After(now)
}

// Activate marks the alarm due now. A fresh note is started and any armed
// notification id is dropped.
func (a *Alarm) Activate(now time.Time) {
	a.state = ActiveState()
	a.Note = Note{CreatedAt: now}
	a.NotificationID = ""
}

// Deactivate schedules a recurring alarm for next, which must lie after now.
func (a *Alarm) Deactivate(now, next time.Time) {
	if !a.Recurrence.IsRecurring() {
		panic(InvariantViolation{Op: "deactivate", Reason: "alarm " + a.ID + " has no next occurrence"})
	}
	if !next.After(now) {
		panic(InvariantViolation{Op: "deactivate", Reason: fmt.Sprintf("next activation %s is not after %s", next, now)})
	}
	a.state = ScheduledState(next)
	a.Note = Note{}
}

// Restore rehydrates a stored state. Only persistence layers should call it.
func (a *Alarm) Restore(s State) {
	a.state = s
}

// PendingNotification is a notification request held by the local gateway.
type PendingNotification struct {
	ID        string
	Title     string
	Body      string
	Image     []byte
	FireAt    time.Time
	CreatedAt time.Time
}
