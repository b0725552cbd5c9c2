package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultDBTimeout = 5 * time.Second
	busyTimeoutMs    = 2000
)

// Database wraps the sqlite handle shared by the scheduler, the notification
// gateway and the host shells.
type Database struct {
	DB      *sql.DB
	dbFile  string
	timeout time.Duration
}

// Option configures a Database.
type Option func(*Database)

// WithTimeout bounds every statement that runs without a caller deadline.
func WithTimeout(d time.Duration) Option {
	return func(db *Database) {
		if d > 0 {
			db.timeout = d
		}
	}
}

// Open connects to the sqlite file at path and migrates the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Database, error) {
	conn, err := sql.Open("sqlite3", connectionString(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := &Database{DB: conn, dbFile: path, timeout: defaultDBTimeout}
	for _, opt := range opts {
		opt(d)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	if err := d.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return d, nil
}

func connectionString(file string) string {
	qs := url.Values{
		"_txlock":       []string{"immediate"},
		"_journal_mode": []string{"WAL"},
		"_busy_timeout": []string{fmt.Sprintf("%d", busyTimeoutMs)},
		"_foreign_keys": []string{"1"},
		"_synchronous":  []string{"NORMAL"},
	}
	return "file:" + file + "?" + qs.Encode()
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// Path returns the file the database was opened from.
func (d *Database) Path() string { return d.dbFile }

func (d *Database) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS alarms (
			id TEXT PRIMARY KEY,
			recurrence_kind INTEGER NOT NULL DEFAULT 1,
			weekday INTEGER NOT NULL DEFAULT 0,
			next_activation INTEGER,
			section_order TEXT NOT NULL DEFAULT 'scheduled',
			sort_order INTEGER NOT NULL DEFAULT 0,
			display_text TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			note TEXT,
			note_created_at INTEGER,
			notification_id TEXT,
			created_at INTEGER NOT NULL,
			CHECK ((next_activation IS NULL) = (section_order = 'active'))
		);`,
		`CREATE INDEX IF NOT EXISTS alarms_next_activation_idx ON alarms (next_activation ASC);`,
		`CREATE TABLE IF NOT EXISTS pending_notifications (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			image BLOB,
			fire_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS pending_notifications_fire_at_idx ON pending_notifications (fire_at ASC);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
	}
	ctx, cancel := d.withTimeout(ctx, d.timeout)
	defer cancel()
	for _, query := range queries {
		if _, err := d.DB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// WithTx runs fn inside a transaction, rolling back when fn fails.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (d *Database) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (d *Database) withDBContext(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := d.withTimeout(ctx, d.timeout)
	defer cancel()
	return fn(ctx)
}

func withDBContextResult[T any](d *Database, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := d.withTimeout(ctx, d.timeout)
	defer cancel()
	return fn(ctx)
}
