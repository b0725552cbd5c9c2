package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/akyairhashvil/nudge/internal/testutil"
)

func TestConcurrentAlarmUpdates(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)

	a := testutil.NewAlarm().ScheduledAt(baseTime.Add(time.Hour)).Build()
	mustCreate(t, ctx, db, a)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			edit := a
			edit.DisplayText = fmt.Sprintf("Title %d", i)
			if err := db.UpdateAlarm(ctx, edit); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent update failed: %v", err)
	}
}

func TestConcurrentCommitActivationsAppliesOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	now := baseTime
	for i := 0; i < 5; i++ {
		mustCreate(t, ctx, db, testutil.NewAlarm().ScheduledAt(now.Add(-time.Duration(i+1)*time.Minute)).Build())
	}
	due, err := db.DueAlarms(ctx, now)
	if err != nil {
		t.Fatalf("DueAlarms failed: %v", err)
	}
	for i := range due {
		due[i].Activate(now)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, err := db.CommitActivations(ctx, due, now)
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			total += len(applied)
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent commit failed: %v", err)
	}
	if total != len(due) {
		t.Fatalf("expected %d activations across all writers, got %d", len(due), total)
	}
}
