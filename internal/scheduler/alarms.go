package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultDisplayText = "New alarm"
	DefaultIcon        = "bell"
)

// Draft holds the user-supplied fields for a new alarm. Empty fields take
// defaults; a nil Recurrence means daily.
type Draft struct {
	DisplayText string
	Icon        string
	Recurrence  *models.Recurrence
}

// Create stores a new alarm. Recurring alarms start scheduled for their
// next occurrence with a notification armed; one-shot alarms start active.
func (s *Scheduler) Create(ctx context.Context, d Draft) (models.Alarm, error) {
	rec := models.DailyRecurrence()
	if d.Recurrence != nil {
		rec = *d.Recurrence
	}
	if err := rec.Validate(); err != nil {
		return models.Alarm{}, fmt.Errorf("create alarm: %w: %w", ErrInvalidInput, err)
	}
	return call(ctx, s, func(ctx context.Context) (models.Alarm, error) {
		now := s.clock.Now()
		a := models.Alarm{
			ID:          uuid.NewString(),
			Recurrence:  rec,
			DisplayText: orDefault(d.DisplayText, DefaultDisplayText),
			Icon:        orDefault(d.Icon, DefaultIcon),
			CreatedAt:   now,
		}
		a.Activate(now)
		if rec.IsRecurring() {
			a.Deactivate(now, s.calc.Next(rec, now))
		}
		if err := s.store.CreateAlarm(ctx, a); err != nil {
			return models.Alarm{}, err
		}
		stored, err := s.store.GetAlarm(ctx, a.ID)
		if err != nil {
			return models.Alarm{}, err
		}
		s.logger.Info("alarm created", zap.String("alarm", a.ID), zap.Stringer("recurrence", rec), zap.Stringer("state", stored.State()))
		s.arm(stored)
		s.publish(ctx)
		return stored, nil
	})
}

// Complete finishes an active alarm. A one-shot alarm is deleted and
// reported with deleted set; a recurring alarm is scheduled for its next
// occurrence.
func (s *Scheduler) Complete(ctx context.Context, id string) (models.Alarm, bool, error) {
	type outcome struct {
		alarm   models.Alarm
		deleted bool
	}
	out, err := call(ctx, s, func(ctx context.Context) (outcome, error) {
		a, err := s.store.GetAlarm(ctx, id)
		if err != nil {
			return outcome{}, err
		}
		if !a.IsActive() {
			return outcome{}, models.ErrNotActive
		}
		if !a.Recurrence.IsRecurring() {
			if err := s.store.DeleteAlarm(ctx, id); err != nil {
				return outcome{}, err
			}
			s.logger.Info("one-shot alarm completed", zap.String("alarm", id))
			s.publish(ctx)
			return outcome{alarm: a, deleted: true}, nil
		}
		now := s.clock.Now()
		a.Deactivate(now, s.calc.Next(a.Recurrence, now))
		a.NotificationID = ""
		if err := s.store.UpdateAlarm(ctx, a); err != nil {
			return outcome{}, err
		}
		s.logger.Info("alarm completed", zap.String("alarm", id), zap.Stringer("state", a.State()))
		s.arm(a)
		s.publish(ctx)
		return outcome{alarm: a}, nil
	})
	return out.alarm, out.deleted, err
}

// Deactivate schedules an active recurring alarm for its next occurrence
// without completing it.
func (s *Scheduler) Deactivate(ctx context.Context, id string) (models.Alarm, error) {
	return s.mutate(ctx, id, func(a *models.Alarm, now time.Time) (bool, error) {
		if !a.IsActive() {
			return false, models.ErrNotActive
		}
		if !a.Recurrence.IsRecurring() {
			return false, ErrNotRecurring
		}
		a.Deactivate(now, s.calc.Next(a.Recurrence, now))
		return true, nil
	})
}

// UpdateRecurrence changes an alarm's rule. A scheduled alarm is moved to the
// new rule's next occurrence and its notification replaced; switching a
// scheduled alarm to one-shot activates it.
func (s *Scheduler) UpdateRecurrence(ctx context.Context, id string, rec models.Recurrence) (models.Alarm, error) {
	if err := rec.Validate(); err != nil {
		return models.Alarm{}, fmt.Errorf("update recurrence: %w: %w", ErrInvalidInput, err)
	}
	return s.mutate(ctx, id, func(a *models.Alarm, now time.Time) (bool, error) {
		a.Recurrence = rec
		if a.IsActive() {
			return false, nil
		}
		if !rec.IsRecurring() {
			a.Activate(now)
			return false, nil
		}
		a.Deactivate(now, s.calc.Next(rec, now))
		return true, nil
	})
}

func (s *Scheduler) Rename(ctx context.Context, id, text string) (models.Alarm, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Alarm{}, fmt.Errorf("%w: display text must not be empty", ErrInvalidInput)
	}
	return s.mutate(ctx, id, func(a *models.Alarm, _ time.Time) (bool, error) {
		a.DisplayText = text
		return !a.IsActive(), nil
	})
}

func (s *Scheduler) SetIcon(ctx context.Context, id, icon string) (models.Alarm, error) {
	return s.mutate(ctx, id, func(a *models.Alarm, _ time.Time) (bool, error) {
		a.Icon = orDefault(icon, DefaultIcon)
		return !a.IsActive(), nil
	})
}

// UpdateNote edits the live note of an active alarm.
func (s *Scheduler) UpdateNote(ctx context.Context, id, text string) (models.Alarm, error) {
	return s.mutate(ctx, id, func(a *models.Alarm, _ time.Time) (bool, error) {
		if !a.IsActive() {
			return false, models.ErrNotActive
		}
		a.Note.Text = text
		return false, nil
	})
}

// Reorder assigns sort positions in the order ids are given.
func (s *Scheduler) Reorder(ctx context.Context, ids []string) error {
	_, err := call(ctx, s, func(ctx context.Context) (struct{}, error) {
		for i, id := range ids {
			a, err := s.store.GetAlarm(ctx, id)
			if err != nil {
				return struct{}{}, err
			}
			a.SortOrder = i + 1
			if err := s.store.UpdateAlarm(ctx, a); err != nil {
				return struct{}{}, err
			}
		}
		s.publish(ctx)
		return struct{}{}, nil
	})
	return err
}

// Delete removes an alarm and cancels its notification.
func (s *Scheduler) Delete(ctx context.Context, id string) error {
	_, err := call(ctx, s, func(ctx context.Context) (struct{}, error) {
		a, err := s.store.GetAlarm(ctx, id)
		if err != nil {
			return struct{}{}, err
		}
		if err := s.store.DeleteAlarm(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.CancelNotification(a.NotificationID)
		s.logger.Info("alarm deleted", zap.String("alarm", id))
		s.publish(ctx)
		return struct{}{}, nil
	})
	return err
}

// mutate loads an alarm, applies fn and stores the result on the worker.
// When fn reports rearm the old notification is replaced by a new one.
func (s *Scheduler) mutate(ctx context.Context, id string, fn func(a *models.Alarm, now time.Time) (bool, error)) (models.Alarm, error) {
	return call(ctx, s, func(ctx context.Context) (models.Alarm, error) {
		a, err := s.store.GetAlarm(ctx, id)
		if err != nil {
			return models.Alarm{}, err
		}
		previous := a.NotificationID
		rearm, err := fn(&a, s.clock.Now())
		if err != nil {
			return models.Alarm{}, err
		}
		if rearm {
			a.NotificationID = ""
		}
		if err := s.store.UpdateAlarm(ctx, a); err != nil {
			return models.Alarm{}, err
		}
		if previous != "" && a.NotificationID != previous {
			s.CancelNotification(previous)
		}
		if rearm {
			s.arm(a)
		}
		s.publish(ctx)
		return a, nil
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
