package report

import (
	"fmt"
	"io"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/recurrence"
	"github.com/emersion/go-ical"
)

const productID = "-//akyairhashvil//nudge//EN"

// WriteICal exports one event per alarm. Scheduled alarms start at their next
// activation, active ones at the instant they became due (or now when that is
// unknown). Recurring rules carry an RRULE built by calc.
func WriteICal(w io.Writer, alarms []models.Alarm, calc *recurrence.Calculator, now time.Time) error {
	if calc == nil {
		calc = recurrence.Default()
	}
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, a := range alarms {
		event, err := alarmEvent(a, calc, now)
		if err != nil {
			return fmt.Errorf("export alarm %s: %w", a.ID, err)
		}
		cal.Children = append(cal.Children, event.Component)
	}
	return ical.NewEncoder(w).Encode(cal)
}

func alarmEvent(a models.Alarm, calc *recurrence.Calculator, now time.Time) (*ical.Event, error) {
	start, ok := a.NextActivation()
	if !ok {
		start = a.Note.CreatedAt
		if start.IsZero() {
			start = now
		}
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, a.ID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	event.Props.SetText(ical.PropSummary, a.DisplayText)
	if a.IsActive() && a.Note.Text != "" {
		event.Props.SetText(ical.PropDescription, a.Note.Text)
	}
	if a.Icon != "" {
		event.Props.SetText(ical.PropCategories, a.Icon)
	}

	if a.Recurrence.IsRecurring() {
		rule, err := calc.RRule(a.Recurrence)
		if err != nil {
			return nil, err
		}
		prop := ical.NewProp(ical.PropRecurrenceRule)
		prop.Value = rule
		event.Props.Set(prop)
	}

	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, a.DisplayText)
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = "PT0S"
	alarm.Props.Set(trigger)
	event.Children = append(event.Children, alarm)

	return event, nil
}
