package testutil

import (
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/google/uuid"
)

// AlarmBuilder provides fluent API for creating test alarms.
type AlarmBuilder struct {
	alarm models.Alarm
}

// NewAlarm starts from an active daily alarm with a random id.
func NewAlarm() *AlarmBuilder {
	return &AlarmBuilder{
		alarm: models.Alarm{
			ID:          uuid.NewString(),
			Recurrence:  models.DailyRecurrence(),
			DisplayText: "Test Alarm",
			Icon:        "bell",
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (b *AlarmBuilder) WithID(id string) *AlarmBuilder {
	b.alarm.ID = id
	return b
}

func (b *AlarmBuilder) WithText(text string) *AlarmBuilder {
	b.alarm.DisplayText = text
	return b
}

func (b *AlarmBuilder) WithIcon(icon string) *AlarmBuilder {
	b.alarm.Icon = icon
	return b
}

func (b *AlarmBuilder) WithRecurrence(r models.Recurrence) *AlarmBuilder {
	b.alarm.Recurrence = r
	return b
}

func (b *AlarmBuilder) WithSortOrder(n int) *AlarmBuilder {
	b.alarm.SortOrder = n
	return b
}

func (b *AlarmBuilder) WithNotificationID(id string) *AlarmBuilder {
	b.alarm.NotificationID = id
	return b
}

// ScheduledAt puts the alarm in the scheduled state regardless of its rule.
func (b *AlarmBuilder) ScheduledAt(t time.Time) *AlarmBuilder {
	b.alarm.Restore(models.ScheduledState(t))
	return b
}

func (b *AlarmBuilder) ActiveSince(t time.Time) *AlarmBuilder {
	b.alarm.Activate(t)
	return b
}

func (b *AlarmBuilder) Build() models.Alarm {
	return b.alarm
}
