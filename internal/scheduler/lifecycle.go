package scheduler

import (
	"context"
	"fmt"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/notify"
	"go.uber.org/zap"
)

var _ notify.Delegate = (*Scheduler)(nil)

// WillPresent is the gateway's delivery callback. It queues a scan and asks
// for the notification to be shown without waiting for the scan.
func (s *Scheduler) WillPresent(_ context.Context, n notify.Notification) notify.PresentationOptions {
	s.logger.Debug("notification will present", zap.String("notification", n.ID))
	s.ScanAsync()
	return notify.PresentAlert | notify.PresentSound
}

// OnProcessReady asks for notification permission if the user has not
// answered yet, scans, and then arms every scheduled alarm that has no live
// notification.
func (s *Scheduler) OnProcessReady(ctx context.Context) error {
	if _, err := s.gateway.RequestAuthorization(ctx); err != nil {
		s.logger.Warn("request notification authorization", zap.Error(err))
	}
	if _, err := s.Scan(ctx); err != nil {
		return err
	}
	pending, err := s.gateway.Pending(ctx)
	if err != nil {
		return fmt.Errorf("list pending notifications: %w", err)
	}
	live := make(map[string]bool, len(pending))
	for _, p := range pending {
		live[p.ID] = true
	}
	_, err = call(ctx, s, func(ctx context.Context) (int, error) {
		alarms, err := s.store.ListAlarms(ctx)
		if err != nil {
			return 0, err
		}
		now := s.clock.Now()
		armed := 0
		for _, a := range alarms {
			if a.IsActive() || a.IsDue(now) {
				continue
			}
			if a.NotificationID != "" && live[a.NotificationID] {
				continue
			}
			s.arm(a)
			armed++
		}
		if armed > 0 {
			s.logger.Info("re-armed notifications", zap.Int("count", armed))
		}
		return armed, nil
	})
	return err
}

func (s *Scheduler) OnForegroundEnter(ctx context.Context) error {
	_, err := s.Scan(ctx)
	return err
}

// Pending lists undelivered notifications for diagnostics.
func (s *Scheduler) Pending(ctx context.Context) ([]notify.PendingRequest, error) {
	return s.gateway.Pending(ctx)
}

// Get and List read straight from the store; they never block on the worker.
func (s *Scheduler) Get(ctx context.Context, id string) (models.Alarm, error) {
	return s.store.GetAlarm(ctx, id)
}

func (s *Scheduler) List(ctx context.Context) ([]models.Alarm, error) {
	return s.store.ListAlarms(ctx)
}
