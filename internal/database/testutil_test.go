package database

import (
	"context"
	"testing"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/testutil"
)

type TestDataBuilder struct {
	t      *testing.T
	ctx    context.Context
	db     *Database
	active []string
	sched  []string
}

func NewTestDataBuilder(t *testing.T) *TestDataBuilder {
	t.Helper()
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	return &TestDataBuilder{t: t, ctx: ctx, db: db}
}

// WithActive inserts count active alarms.
func (b *TestDataBuilder) WithActive(count int) *TestDataBuilder {
	b.t.Helper()
	for i := 0; i < count; i++ {
		a := testutil.NewAlarm().ActiveSince(baseTime).Build()
		mustCreate(b.t, b.ctx, b.db, a)
		b.active = append(b.active, a.ID)
	}
	return b
}

// WithScheduled inserts one alarm per offset, scheduled at baseTime+offset.
func (b *TestDataBuilder) WithScheduled(offsets ...time.Duration) *TestDataBuilder {
	b.t.Helper()
	for _, off := range offsets {
		a := testutil.NewAlarm().ScheduledAt(baseTime.Add(off)).Build()
		mustCreate(b.t, b.ctx, b.db, a)
		b.sched = append(b.sched, a.ID)
	}
	return b
}

func (b *TestDataBuilder) Build() *Database {
	return b.db
}

func TestTestDataBuilder(t *testing.T) {
	db := NewTestDataBuilder(t).
		WithActive(2).
		WithScheduled(-time.Hour, time.Hour, 2*time.Hour).
		Build()
	ctx := context.Background()

	alarms, err := db.ListAlarms(ctx)
	if err != nil {
		t.Fatalf("ListAlarms failed: %v", err)
	}
	if len(alarms) != 5 {
		t.Fatalf("expected 5 alarms, got %d", len(alarms))
	}
	for i, a := range alarms {
		wantSection := models.SectionScheduled
		if i < 2 {
			wantSection = models.SectionActive
		}
		if a.Section() != wantSection {
			t.Fatalf("alarm %d: expected section %s, got %s", i, wantSection, a.Section())
		}
	}
	due, err := db.DueAlarms(ctx, baseTime)
	if err != nil {
		t.Fatalf("DueAlarms failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected one due alarm, got %d", len(due))
	}
}
