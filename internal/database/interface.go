package database

import (
	"context"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
)

// AlarmRepository defines alarm-related database operations.
type AlarmRepository interface {
	CreateAlarm(ctx context.Context, a models.Alarm) error
	GetAlarm(ctx context.Context, id string) (models.Alarm, error)
	ListAlarms(ctx context.Context) ([]models.Alarm, error)
	DueAlarms(ctx context.Context, now time.Time) ([]models.Alarm, error)
	UpdateAlarm(ctx context.Context, a models.Alarm) error
	DeleteAlarm(ctx context.Context, id string) error
	CommitActivations(ctx context.Context, alarms []models.Alarm, now time.Time) ([]string, error)
	SetNotificationID(ctx context.Context, alarmID, notificationID string, next time.Time) (bool, error)
}

// NotificationRepository defines the storage behind the local notification gateway.
type NotificationRepository interface {
	SavePendingNotification(ctx context.Context, n models.PendingNotification) error
	DeletePendingNotification(ctx context.Context, id string) error
	ListPendingNotifications(ctx context.Context) ([]models.PendingNotification, error)
}

// SettingsRepository defines key/value settings operations.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, bool)
	SetSetting(ctx context.Context, key, value string) error
}

// Repository combines all repository interfaces.
type Repository interface {
	AlarmRepository
	NotificationRepository
	SettingsRepository
}

var _ Repository = (*Database)(nil)
