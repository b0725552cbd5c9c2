package database

import (
	"context"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
)

// SavePendingNotification stores or replaces a pending notification request.
func (d *Database) SavePendingNotification(ctx context.Context, n models.PendingNotification) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		_, err := d.DB.ExecContext(ctx, `INSERT INTO pending_notifications (id, title, body, image, fire_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title, body = excluded.body, image = excluded.image, fire_at = excluded.fire_at`,
			n.ID, n.Title, n.Body, n.Image, toStoreTime(n.FireAt), toStoreTime(n.CreatedAt))
		return wrapNotificationErr("save", n.ID, err)
	})
}

// DeletePendingNotification removes a request. Missing ids are not an error.
func (d *Database) DeletePendingNotification(ctx context.Context, id string) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		_, err := d.DB.ExecContext(ctx, "DELETE FROM pending_notifications WHERE id = ?", id)
		return wrapNotificationErr("delete", id, err)
	})
}

// ListPendingNotifications returns every stored request ordered by fire time.
func (d *Database) ListPendingNotifications(ctx context.Context) ([]models.PendingNotification, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) ([]models.PendingNotification, error) {
		rows, err := d.DB.QueryContext(ctx, `
			SELECT id, title, body, image, fire_at, created_at
			FROM pending_notifications
			ORDER BY fire_at ASC, created_at ASC`)
		if err != nil {
			return nil, wrapNotificationErr("list", "", err)
		}
		defer rows.Close()

		var out []models.PendingNotification
		for rows.Next() {
			var (
				n               models.PendingNotification
				fireAt, created int64
			)
			if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Image, &fireAt, &created); err != nil {
				return nil, wrapNotificationErr("list", "", err)
			}
			n.FireAt = fromStoreTime(fireAt)
			n.CreatedAt = fromStoreTime(created)
			out = append(out, n)
		}
		if err := rows.Err(); err != nil {
			return nil, wrapNotificationErr("list", "", err)
		}
		return out, nil
	})
}
