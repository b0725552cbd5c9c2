package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akyairhashvil/nudge/internal/database"
	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/testutil"
)

func TestCleanupStaleAttachments(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "nudge-icon-1.png")
	fresh := filepath.Join(dir, "nudge-icon-2.png")
	other := filepath.Join(dir, "unrelated.png")
	for _, path := range []string{old, fresh, other} {
		if err := os.WriteFile(path, []byte("stale"), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	if n := cleanupStaleAttachments(dir, time.Now().Add(-time.Hour)); n != 1 {
		t.Fatalf("removed %d files, want 1", n)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed", old)
	}
	for _, path := range []string{fresh, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to survive: %v", path, err)
		}
	}
}

func TestParseAnswer(t *testing.T) {
	for _, yes := range []string{"", "y\n", "YES\n", " yes "} {
		if !parseAnswer(yes) {
			t.Fatalf("parseAnswer(%q) = false", yes)
		}
	}
	for _, no := range []string{"n\n", "no", "later"} {
		if parseAnswer(no) {
			t.Fatalf("parseAnswer(%q) = true", no)
		}
	}
}

func TestPromptAuthorizerWithoutTerminalUsesDefault(t *testing.T) {
	var out bytes.Buffer
	granted, err := promptAuthorizer(strings.NewReader("n\n"), &out, true)(context.Background())
	if err != nil || !granted {
		t.Fatalf("granted=%v err=%v", granted, err)
	}
	if out.Len() != 0 {
		t.Fatalf("no prompt expected without a terminal, got %q", out.String())
	}
}

func TestRenderAlarmTable(t *testing.T) {
	next := time.Date(2024, 5, 8, 6, 0, 0, 0, time.UTC)
	alarms := []models.Alarm{
		testutil.NewAlarm().WithID("0123456789").WithText("Bins out").
			WithRecurrence(models.WeeklyRecurrence(3)).ScheduledAt(next).Build(),
	}
	got := renderAlarmTable(alarms, time.UTC, 100)
	for _, want := range []string{"01234567", "Bins out", "weekly:wed", "scheduled", "Wed 2024-05-08 06:00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("table missing %q:\n%s", want, got)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	want := []string{"tui", "serve", "scan", "list", "pending", "report", "export", "authorize"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
}

func TestAuthorizeRequiresOneFlag(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"authorize"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "--grant") {
		t.Fatalf("expected flag error, got %v", err)
	}
}

func TestExportAndAuthorizeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NUDGE_DATA_DIR", dir)
	t.Setenv("NUDGE_LOG_LEVEL", "error")

	db, err := database.Open(context.Background(), filepath.Join(dir, "nudge.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	seed := testutil.NewAlarm().WithText("Stretch").ScheduledAt(time.Now().Add(24 * time.Hour)).Build()
	if err := db.CreateAlarm(context.Background(), seed); err != nil {
		t.Fatalf("seed alarm: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"authorize", "--deny"})
	if err := root.Execute(); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if !strings.Contains(out.String(), "notifications: denied") {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"export"})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out.String(), "BEGIN:VCALENDAR") || !strings.Contains(out.String(), "SUMMARY:Stretch") {
		t.Fatalf("export output = %q", out.String())
	}
}

func TestShortCommandsLeaveStoredRequestsAlone(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NUDGE_DATA_DIR", dir)
	t.Setenv("NUDGE_LOG_LEVEL", "error")
	dbPath := filepath.Join(dir, "nudge.db")

	db, err := database.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	overdue := models.PendingNotification{
		ID:        "overdue",
		Title:     "Stretch",
		FireAt:    time.Now().Add(-time.Hour),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	if err := db.SavePendingNotification(context.Background(), overdue); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	for _, args := range [][]string{{"list"}, {"pending"}, {"export"}} {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%s: %v", args[0], err)
		}
	}

	db, err = database.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close()
	pending, err := db.ListPendingNotifications(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "overdue" {
		t.Fatalf("expected the overdue request to stay stored, got %+v", pending)
	}
}
