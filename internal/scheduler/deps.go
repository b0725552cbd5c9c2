package scheduler

//go:generate mockgen -source=deps.go -destination=mock_deps_test.go -package=scheduler

import (
	"context"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/notify"
)

// Store is the persistence the scheduler reads and writes alarms through.
type Store interface {
	CreateAlarm(ctx context.Context, a models.Alarm) error
	GetAlarm(ctx context.Context, id string) (models.Alarm, error)
	ListAlarms(ctx context.Context) ([]models.Alarm, error)
	DueAlarms(ctx context.Context, now time.Time) ([]models.Alarm, error)
	UpdateAlarm(ctx context.Context, a models.Alarm) error
	DeleteAlarm(ctx context.Context, id string) error
	CommitActivations(ctx context.Context, alarms []models.Alarm, now time.Time) ([]string, error)
	SetNotificationID(ctx context.Context, alarmID, notificationID string, next time.Time) (bool, error)
}

// Gateway is the local notification facility.
type Gateway interface {
	RequestAuthorization(ctx context.Context) (bool, error)
	Settings(ctx context.Context) (notify.Settings, error)
	Add(ctx context.Context, req notify.Request) error
	Remove(ctx context.Context, id string) error
	Pending(ctx context.Context) ([]notify.PendingRequest, error)
}
