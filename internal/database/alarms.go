package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
)

const alarmOrder = "section_order ASC, sort_order ASC, next_activation ASC, created_at ASC"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlarm(s rowScanner) (models.Alarm, error) {
	var (
		a           models.Alarm
		kind        int
		weekday     int
		next        sql.NullInt64
		section     string
		note        sql.NullString
		noteCreated sql.NullInt64
		notifID     sql.NullString
		created     int64
	)
	err := s.Scan(&a.ID, &kind, &weekday, &next, &section, &a.SortOrder,
		&a.DisplayText, &a.Icon, &note, &noteCreated, &notifID, &created)
	if err != nil {
		return a, err
	}
	a.Recurrence = models.Recurrence{Kind: models.RecurrenceKind(kind), Weekday: weekday}
	if next.Valid {
		a.Restore(models.ScheduledState(fromStoreTime(next.Int64)))
	} else {
		a.Restore(models.ActiveState())
	}
	a.Note = models.Note{Text: note.String, CreatedAt: timeFromNullable(noteCreated)}
	a.NotificationID = notifID.String
	a.CreatedAt = fromStoreTime(created)
	return a, nil
}

func nextActivationArg(a models.Alarm) sql.NullInt64 {
	next, ok := a.NextActivation()
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toStoreTime(next), Valid: true}
}

func (d *Database) queryAlarms(ctx context.Context, op string, q *AlarmQuery) ([]models.Alarm, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) ([]models.Alarm, error) {
		query, args := q.Build()
		rows, err := d.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, wrapAlarmErr(op, "", err)
		}
		defer rows.Close()

		var alarms []models.Alarm
		for rows.Next() {
			a, err := scanAlarm(rows)
			if err != nil {
				return nil, wrapAlarmErr(op, "", err)
			}
			alarms = append(alarms, a)
		}
		if err := rows.Err(); err != nil {
			return nil, wrapAlarmErr(op, "", err)
		}
		return alarms, nil
	})
}

// CreateAlarm inserts a new alarm. A zero SortOrder places it after every
// existing alarm.
func (d *Database) CreateAlarm(ctx context.Context, a models.Alarm) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		if a.ID == "" {
			return wrapAlarmErr("create", "", errors.New("missing id"))
		}
		if err := a.Recurrence.Validate(); err != nil {
			return wrapAlarmErr("create", a.ID, err)
		}
		if a.SortOrder == 0 {
			maxOrder, err := d.getMaxSortOrder(ctx)
			if err != nil {
				return wrapAlarmErr("create", a.ID, err)
			}
			a.SortOrder = maxOrder + 1
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now()
		}
		_, err := d.DB.ExecContext(ctx, `INSERT INTO alarms (`+alarmColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, int(a.Recurrence.Kind), a.Recurrence.Weekday, nextActivationArg(a), string(a.Section()), a.SortOrder,
			a.DisplayText, a.Icon, nullableString(a.Note.Text), nullableTime(a.Note.CreatedAt),
			nullableString(a.NotificationID), toStoreTime(a.CreatedAt))
		return wrapAlarmErr("create", a.ID, err)
	})
}

func (d *Database) GetAlarm(ctx context.Context, id string) (models.Alarm, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) (models.Alarm, error) {
		query, args := NewAlarmQuery().WhereID(id).Build()
		a, err := scanAlarm(d.DB.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return models.Alarm{}, wrapAlarmErr("get", id, models.ErrAlarmNotFound)
		}
		if err != nil {
			return models.Alarm{}, wrapAlarmErr("get", id, err)
		}
		return a, nil
	})
}

// ListAlarms returns active alarms first, then scheduled ones.
func (d *Database) ListAlarms(ctx context.Context) ([]models.Alarm, error) {
	return d.queryAlarms(ctx, "list", NewAlarmQuery().OrderBy(alarmOrder))
}

// DueAlarms returns scheduled alarms whose activation instant is at or before now.
func (d *Database) DueAlarms(ctx context.Context, now time.Time) ([]models.Alarm, error) {
	return d.queryAlarms(ctx, "due", NewAlarmQuery().WhereDue(now).OrderBy("next_activation ASC"))
}

// UpdateAlarm overwrites every column of an existing alarm.
func (d *Database) UpdateAlarm(ctx context.Context, a models.Alarm) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		if err := a.Recurrence.Validate(); err != nil {
			return wrapAlarmErr("update", a.ID, err)
		}
		res, err := d.DB.ExecContext(ctx, `UPDATE alarms SET
			recurrence_kind = ?, weekday = ?, next_activation = ?, section_order = ?, sort_order = ?,
			display_text = ?, icon = ?, note = ?, note_created_at = ?, notification_id = ?
			WHERE id = ?`,
			int(a.Recurrence.Kind), a.Recurrence.Weekday, nextActivationArg(a), string(a.Section()), a.SortOrder,
			a.DisplayText, a.Icon, nullableString(a.Note.Text), nullableTime(a.Note.CreatedAt),
			nullableString(a.NotificationID), a.ID)
		if err != nil {
			return wrapAlarmErr("update", a.ID, err)
		}
		return wrapAlarmErr("update", a.ID, requireRow(res))
	})
}

func (d *Database) DeleteAlarm(ctx context.Context, id string) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		res, err := d.DB.ExecContext(ctx, "DELETE FROM alarms WHERE id = ?", id)
		if err != nil {
			return wrapAlarmErr("delete", id, err)
		}
		return wrapAlarmErr("delete", id, requireRow(res))
	})
}

// CommitActivations writes the activated alarms in one transaction. Each row
// is only updated while it is still scheduled at or before now, so an alarm
// edited or deleted since it was read is skipped. The ids actually written
// are returned.
func (d *Database) CommitActivations(ctx context.Context, alarms []models.Alarm, now time.Time) ([]string, error) {
	if len(alarms) == 0 {
		return nil, nil
	}
	ctx, cancel := d.withTimeout(ctx, d.timeout)
	defer cancel()

	var applied []string
	err := d.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE alarms
			SET next_activation = NULL, section_order = ?, sort_order = ?, note = ?, note_created_at = ?, notification_id = NULL
			WHERE id = ? AND next_activation IS NOT NULL AND next_activation <= ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		cutoff := toStoreTime(now)
		for _, a := range alarms {
			if !a.IsActive() {
				return fmt.Errorf("alarm %s is %s, not active", a.ID, a.State())
			}
			res, err := stmt.ExecContext(ctx, string(models.SectionActive), a.SortOrder,
				nullableString(a.Note.Text), nullableTime(a.Note.CreatedAt), a.ID, cutoff)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 1 {
				applied = append(applied, a.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapAlarmErr("activate", "", err)
	}
	return applied, nil
}

// SetNotificationID records the armed notification for an alarm that is
// still scheduled at next. It reports whether the alarm matched.
func (d *Database) SetNotificationID(ctx context.Context, alarmID, notificationID string, next time.Time) (bool, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) (bool, error) {
		res, err := d.DB.ExecContext(ctx,
			"UPDATE alarms SET notification_id = ? WHERE id = ? AND next_activation = ?",
			nullableString(notificationID), alarmID, toStoreTime(next))
		if err != nil {
			return false, wrapAlarmErr("set notification", alarmID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, wrapAlarmErr("set notification", alarmID, err)
		}
		return n == 1, nil
	})
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrAlarmNotFound
	}
	return nil
}
