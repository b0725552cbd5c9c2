package scheduler

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const attachmentType = "public.png"

var (
	errAlarmChanged  = errors.New("alarm changed before notification was recorded")
	errArmSuperseded = errors.New("alarm was re-armed before notification was recorded")
)

// Result is the outcome of ScheduleNotification: an id on success, an error
// otherwise.
type Result struct {
	ID  string
	Err error
}

// ScheduleNotification asks the gateway to deliver a notification for alarm
// at the given instant. Authorization is checked on every call. The returned
// channel receives exactly one Result.
func (s *Scheduler) ScheduleNotification(ctx context.Context, alarm models.Alarm, at time.Time, body string, icon image.Image) <-chan Result {
	out := make(chan Result, 1)
	s.inflight.add()
	go func() {
		defer s.inflight.done()
		out <- s.scheduleNotification(ctx, alarm, at, body, icon)
	}()
	return out
}

func (s *Scheduler) scheduleNotification(ctx context.Context, alarm models.Alarm, at time.Time, body string, icon image.Image) Result {
	log := s.logger.With(zap.String("alarm", alarm.ID))

	settings, err := s.gateway.Settings(ctx)
	if err != nil {
		log.Warn("read notification settings", zap.Error(err))
		return Result{Err: err}
	}
	if !settings.CanSchedule() {
		log.Info("notification not scheduled",
			zap.Stringer("authorization", settings.Status),
			zap.Bool("alerts_enabled", settings.AlertsEnabled))
		return Result{Err: notify.ErrNotAuthorized}
	}

	req := notify.Request{
		ID:    uuid.NewString(),
		Title: alarm.DisplayText,
		Body:  body,
		Delay: max(at.Sub(s.clock.Now()), 0),
	}
	if icon != nil {
		path, err := s.writeAttachment(icon)
		if err != nil {
			log.Warn("icon attachment skipped", zap.Error(err))
		} else {
			defer func() {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					log.Warn("remove icon attachment", zap.String("path", path), zap.Error(err))
				}
			}()
			req.Attachment = &notify.Attachment{Path: path, Type: attachmentType}
		}
	}

	if err := s.gateway.Add(ctx, req); err != nil {
		log.Error("schedule notification", zap.Error(err))
		return Result{Err: err}
	}
	log.Debug("notification scheduled",
		zap.String("notification", req.ID),
		zap.Time("at", at),
		zap.Duration("delay", req.Delay))
	return Result{ID: req.ID}
}

func (s *Scheduler) writeAttachment(img image.Image) (string, error) {
	f, err := os.CreateTemp(s.tempDir, "nudge-icon-*.png")
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// CancelNotification removes a scheduled notification without waiting.
func (s *Scheduler) CancelNotification(id string) {
	if id == "" {
		return
	}
	s.inflight.add()
	go func() {
		defer s.inflight.done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.gateway.Remove(ctx, id); err != nil {
			s.logger.Debug("cancel notification", zap.String("notification", id), zap.Error(err))
		}
	}()
}

// arm schedules the notification for a scheduled alarm and records the
// returned id through the worker. It must be called on the worker. Only the
// latest arm per alarm may record its id; earlier ones are cancelled when
// they report back.
func (s *Scheduler) arm(a models.Alarm) {
	next, ok := a.NextActivation()
	if !ok {
		return
	}
	s.armSeq++
	token := s.armSeq
	s.arms[a.ID] = token

	var icon image.Image
	if s.icons != nil {
		icon = s.icons.Icon(a.Icon)
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	res := s.ScheduleNotification(ctx, a, next, notificationBody(a), icon)

	s.inflight.add()
	go func() {
		defer s.inflight.done()
		defer cancel()
		s.record(ctx, a.ID, token, <-res, next)
	}()
}

func (s *Scheduler) record(ctx context.Context, alarmID string, token uint64, r Result, next time.Time) {
	_, err := call(ctx, s, func(ctx context.Context) (struct{}, error) {
		latest := s.arms[alarmID] == token
		if latest {
			delete(s.arms, alarmID)
		}
		if r.Err != nil {
			return struct{}{}, nil
		}
		if !latest {
			return struct{}{}, errArmSuperseded
		}
		ok, err := s.store.SetNotificationID(ctx, alarmID, r.ID, next)
		if err != nil {
			return struct{}{}, err
		}
		if !ok {
			return struct{}{}, errAlarmChanged
		}
		s.publish(ctx)
		return struct{}{}, nil
	})
	if err != nil && r.Err == nil {
		s.logger.Debug("discarding armed notification",
			zap.String("alarm", alarmID),
			zap.String("notification", r.ID),
			zap.Error(err))
		s.CancelNotification(r.ID)
	}
}

func notificationBody(a models.Alarm) string {
	switch a.Recurrence.Kind {
	case models.Daily:
		return "Repeats every day"
	case models.Weekly:
		return "Repeats every " + a.Recurrence.TimeWeekday().String()
	}
	return "Reminder"
}
