package notify

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memStore struct {
	mu       sync.Mutex
	pending  map[string]models.PendingNotification
	settings map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		pending:  make(map[string]models.PendingNotification),
		settings: make(map[string]string),
	}
}

func (s *memStore) SavePendingNotification(_ context.Context, n models.PendingNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[n.ID] = n
	return nil
}

func (s *memStore) DeletePendingNotification(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	return nil
}

func (s *memStore) ListPendingNotifications(_ context.Context) ([]models.PendingNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PendingNotification, 0, len(s.pending))
	for _, n := range s.pending {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out, nil
}

func (s *memStore) GetSetting(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	return v, ok
}

func (s *memStore) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

type recordingDelegate struct {
	mu        sync.Mutex
	delivered []Notification
}

func (d *recordingDelegate) WillPresent(_ context.Context, n Notification) PresentationOptions {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, n)
	return PresentAlert | PresentSound
}

func (d *recordingDelegate) ids() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var ids []string
	for _, n := range d.delivered {
		ids = append(ids, n.ID)
	}
	return ids
}

var start = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

func newTestGateway(t *testing.T, store Store, opts ...GatewayOption) (*LocalGateway, *clock.Mock, *recordingDelegate) {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(start)
	opts = append([]GatewayOption{WithGatewayClock(clk), WithGatewayLogger(zaptest.NewLogger(t))}, opts...)
	g := NewLocalGateway(store, opts...)
	d := &recordingDelegate{}
	g.SetDelegate(d)
	t.Cleanup(g.Close)
	return g, clk, d
}

func TestSettingsDefaults(t *testing.T) {
	g, _, _ := newTestGateway(t, newMemStore())
	s, err := g.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NotDetermined, s.Status)
	assert.True(t, s.AlertsEnabled)
	assert.False(t, s.CanSchedule())
}

func TestRequestAuthorizationAsksOnce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	g, _, _ := newTestGateway(t, newMemStore(), WithAuthorizer(func(context.Context) (bool, error) {
		calls++
		return true, nil
	}))

	granted, err := g.RequestAuthorization(ctx)
	require.NoError(t, err)
	assert.True(t, granted)
	granted, err = g.RequestAuthorization(ctx)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, 1, calls)

	require.NoError(t, g.SetAuthorization(ctx, false))
	granted, err = g.RequestAuthorization(ctx)
	require.NoError(t, err)
	assert.False(t, granted)

	s, err := g.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, Denied, s.Status)
}

func TestRequestAuthorizationWithoutPrompt(t *testing.T) {
	g, _, _ := newTestGateway(t, newMemStore())
	granted, err := g.RequestAuthorization(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestAlertsDisabledBlocksScheduling(t *testing.T) {
	ctx := context.Background()
	g, _, _ := newTestGateway(t, newMemStore())
	require.NoError(t, g.SetAuthorization(ctx, true))
	require.NoError(t, g.SetAlertsEnabled(ctx, false))
	s, err := g.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, s.CanSchedule())
}

func TestAddDeliversAfterDelay(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	g, clk, d := newTestGateway(t, store)
	var presented []PresentationOptions
	var mu sync.Mutex
	g.SetPresenter(PresenterFunc(func(_ Notification, opts PresentationOptions) {
		mu.Lock()
		defer mu.Unlock()
		presented = append(presented, opts)
	}))

	require.NoError(t, g.Add(ctx, Request{ID: "n1", Title: "Stretch", Body: "Reminder", Delay: time.Hour}))
	pending, err := g.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, start.Add(time.Hour).Equal(pending[0].FireAt))

	clk.Add(59 * time.Minute)
	assert.Empty(t, d.ids())

	clk.Add(time.Minute)
	require.Eventually(t, func() bool { return len(d.ids()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"n1"}, d.ids())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(presented) == 1
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.True(t, presented[0].Has(PresentAlert))
	mu.Unlock()

	pending, err = g.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRemoveCancelsDelivery(t *testing.T) {
	ctx := context.Background()
	g, clk, d := newTestGateway(t, newMemStore())
	require.NoError(t, g.Add(ctx, Request{ID: "n1", Delay: time.Minute}))
	require.NoError(t, g.Remove(ctx, "n1"))
	require.NoError(t, g.Remove(ctx, "unknown"))

	clk.Add(time.Hour)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, d.ids())
	pending, err := g.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAddCopiesAttachment(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	g, _, _ := newTestGateway(t, store)

	path := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))
	require.NoError(t, g.Add(ctx, Request{ID: "n1", Delay: time.Hour, Attachment: &Attachment{Path: path, Type: "public.png"}}))
	require.NoError(t, os.Remove(path))

	stored, err := store.ListPendingNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []byte("png-bytes"), stored[0].Image)

	pending, err := g.Pending(ctx)
	require.NoError(t, err)
	assert.True(t, pending[0].HasImage)

}

func TestAddWithUnreadableAttachmentKeepsRequest(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	g, _, _ := newTestGateway(t, store)

	missing := filepath.Join(t.TempDir(), "gone.png")
	require.NoError(t, g.Add(ctx, Request{ID: "n2", Title: "Stretch", Delay: time.Hour, Attachment: &Attachment{Path: missing}}))

	pending, err := g.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "n2", pending[0].ID)
	assert.False(t, pending[0].HasImage)
}

func TestAddRequiresID(t *testing.T) {
	g, _, _ := newTestGateway(t, newMemStore())
	assert.Error(t, g.Add(context.Background(), Request{Delay: time.Minute}))
}

func TestRestoreRearmsStoredRequests(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.SavePendingNotification(ctx, models.PendingNotification{ID: "overdue", FireAt: start.Add(-time.Minute)}))
	require.NoError(t, store.SavePendingNotification(ctx, models.PendingNotification{ID: "later", FireAt: start.Add(time.Hour)}))

	g, clk, d := newTestGateway(t, store)
	require.NoError(t, g.Restore(ctx))

	require.Eventually(t, func() bool { return len(d.ids()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"overdue"}, d.ids())

	clk.Add(time.Hour)
	require.Eventually(t, func() bool { return len(d.ids()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"overdue", "later"}, d.ids())
}

func TestParseAuthorizationStatus(t *testing.T) {
	for _, s := range []AuthorizationStatus{NotDetermined, Denied, Authorized} {
		got, err := ParseAuthorizationStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseAuthorizationStatus("maybe")
	assert.Error(t, err)
}
