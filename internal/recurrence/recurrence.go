// Package recurrence computes the next activation instant for alarm
// recurrence rules. Activations are anchored to a fixed time of day in a
// fixed reference zone, never the device's local zone.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/teambition/rrule-go"
)

const (
	DefaultAnchorHour   = 6
	DefaultAnchorMinute = 0
)

var byDay = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

var icalDay = []string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// Calculator is safe for concurrent use.
type Calculator struct {
	loc    *time.Location
	hour   int
	minute int
}

func New(loc *time.Location, hour, minute int) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc, hour: hour, minute: minute}
}

// Default anchors activations at 06:00 UTC.
func Default() *Calculator {
	return New(time.UTC, DefaultAnchorHour, DefaultAnchorMinute)
}

func (c *Calculator) Location() *time.Location { return c.loc }

// Next returns the soonest anchor instant strictly after from that satisfies
// rec. It panics for one-shot rules, which have no next occurrence.
func (c *Calculator) Next(rec models.Recurrence, from time.Time) time.Time {
	opt, err := c.option(rec, from)
	if err != nil {
		panic(models.InvariantViolation{Op: "next activation", Reason: err.Error()})
	}
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		panic(models.InvariantViolation{Op: "next activation", Reason: err.Error()})
	}
	next := rule.After(from, false)
	if next.IsZero() {
		panic(models.InvariantViolation{Op: "next activation", Reason: "no occurrence after " + from.String() + " for " + rec.String()})
	}
	return next
}

// RRule renders rec as an RFC 5545 RRULE value.
func (c *Calculator) RRule(rec models.Recurrence) (string, error) {
	switch rec.Kind {
	case models.Daily:
		return "FREQ=DAILY", nil
	case models.Weekly:
		if err := rec.Validate(); err != nil {
			return "", err
		}
		return "FREQ=WEEKLY;BYDAY=" + icalDay[rec.Weekday-1], nil
	}
	return "", fmt.Errorf("%s has no recurrence rule", rec)
}

// Anchor returns the anchor instant on the reference-zone calendar day of t.
func (c *Calculator) Anchor(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), c.hour, c.minute, 0, 0, c.loc)
}

func (c *Calculator) option(rec models.Recurrence, from time.Time) (*rrule.ROption, error) {
	// Start a week early so the first match after from is always generated.
	dtstart := c.Anchor(from).AddDate(0, 0, -7)
	switch rec.Kind {
	case models.OneShot:
		return nil, errors.New("one-shot alarms have no next activation")
	case models.Daily:
		return &rrule.ROption{Freq: rrule.DAILY, Dtstart: dtstart}, nil
	case models.Weekly:
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		return &rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   dtstart,
			Byweekday: []rrule.Weekday{byDay[rec.Weekday-1]},
		}, nil
	}
	return nil, fmt.Errorf("unknown recurrence kind %d", rec.Kind)
}
