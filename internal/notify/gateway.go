package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const (
	settingAuthorization = "notify.authorization"
	settingAlerts        = "notify.alerts_enabled"

	deliveryTimeout = 5 * time.Second
)

type armed struct {
	req   models.PendingNotification
	timer *clock.Timer
}

// LocalGateway keeps pending requests in the store and delivers them with
// timers from its clock. Requests outlive the process: Restore re-arms them.
type LocalGateway struct {
	store     Store
	clock     clock.Clock
	logger    *zap.Logger
	authorize Authorizer

	mu        sync.Mutex
	pending   map[string]*armed
	delegate  Delegate
	presenter Presenter
	closed    bool
}

type GatewayOption func(*LocalGateway)

func WithGatewayClock(c clock.Clock) GatewayOption {
	return func(g *LocalGateway) { g.clock = c }
}

func WithGatewayLogger(l *zap.Logger) GatewayOption {
	return func(g *LocalGateway) { g.logger = l }
}

// WithAuthorizer sets the prompt used by RequestAuthorization.
func WithAuthorizer(a Authorizer) GatewayOption {
	return func(g *LocalGateway) { g.authorize = a }
}

func NewLocalGateway(store Store, opts ...GatewayOption) *LocalGateway {
	g := &LocalGateway{
		store:   store,
		clock:   clock.New(),
		logger:  zap.NewNop(),
		pending: make(map[string]*armed),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetDelegate installs the delivery callback. Hosts call it once at startup.
func (g *LocalGateway) SetDelegate(d Delegate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delegate = d
}

func (g *LocalGateway) SetPresenter(p Presenter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.presenter = p
}

// RequestAuthorization asks for permission if the user has not answered yet
// and reports whether notifications are authorized.
func (g *LocalGateway) RequestAuthorization(ctx context.Context) (bool, error) {
	s, err := g.Settings(ctx)
	if err != nil {
		return false, err
	}
	if s.Status != NotDetermined {
		return s.Status == Authorized, nil
	}
	if g.authorize == nil {
		return false, nil
	}
	granted, err := g.authorize(ctx)
	if err != nil {
		return false, fmt.Errorf("request authorization: %w", err)
	}
	if err := g.SetAuthorization(ctx, granted); err != nil {
		return false, err
	}
	return granted, nil
}

// SetAuthorization records the user's answer, overriding any earlier one.
func (g *LocalGateway) SetAuthorization(ctx context.Context, granted bool) error {
	status := Denied
	if granted {
		status = Authorized
	}
	return g.store.SetSetting(ctx, settingAuthorization, status.String())
}

func (g *LocalGateway) SetAlertsEnabled(ctx context.Context, enabled bool) error {
	return g.store.SetSetting(ctx, settingAlerts, strconv.FormatBool(enabled))
}

// Settings returns the current permission snapshot. Alerts default to enabled.
func (g *LocalGateway) Settings(ctx context.Context) (Settings, error) {
	s := Settings{AlertsEnabled: true}
	if v, ok := g.store.GetSetting(ctx, settingAuthorization); ok {
		status, err := ParseAuthorizationStatus(v)
		if err != nil {
			return Settings{}, err
		}
		s.Status = status
	}
	if v, ok := g.store.GetSetting(ctx, settingAlerts); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", settingAlerts, err)
		}
		s.AlertsEnabled = enabled
	}
	return s, nil
}

// Add persists req and arms a timer for it. A request with an existing id
// replaces the earlier one.
func (g *LocalGateway) Add(ctx context.Context, req Request) error {
	if req.ID == "" {
		return errors.New("notification request has no id")
	}
	n := models.PendingNotification{
		ID:        req.ID,
		Title:     req.Title,
		Body:      req.Body,
		FireAt:    g.clock.Now().Add(max(req.Delay, 0)),
		CreatedAt: g.clock.Now(),
	}
	if req.Attachment != nil {
		data, err := os.ReadFile(req.Attachment.Path)
		if err != nil {
			g.logger.Warn("attachment dropped", zap.String("id", req.ID), zap.Error(err))
		} else {
			n.Image = data
		}
	}
	if err := g.store.SavePendingNotification(ctx, n); err != nil {
		return err
	}
	g.arm(n)
	return nil
}

// Remove cancels a pending request. Unknown ids are ignored.
func (g *LocalGateway) Remove(ctx context.Context, id string) error {
	g.mu.Lock()
	if a, ok := g.pending[id]; ok {
		if a.timer != nil {
			a.timer.Stop()
		}
		delete(g.pending, id)
	}
	g.mu.Unlock()
	return g.store.DeletePendingNotification(ctx, id)
}

func (g *LocalGateway) Pending(ctx context.Context) ([]PendingRequest, error) {
	stored, err := g.store.ListPendingNotifications(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PendingRequest, 0, len(stored))
	for _, n := range stored {
		out = append(out, PendingRequest{
			ID:       n.ID,
			Title:    n.Title,
			Body:     n.Body,
			FireAt:   n.FireAt,
			HasImage: len(n.Image) > 0,
		})
	}
	return out, nil
}

// Restore re-arms every stored request. Requests whose fire time has passed
// are delivered immediately.
func (g *LocalGateway) Restore(ctx context.Context) error {
	stored, err := g.store.ListPendingNotifications(ctx)
	if err != nil {
		return err
	}
	for _, n := range stored {
		g.arm(n)
	}
	g.logger.Debug("restored pending notifications", zap.Int("count", len(stored)))
	return nil
}

// Close stops every timer. Stored requests are kept for the next Restore.
func (g *LocalGateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, a := range g.pending {
		if a.timer != nil {
			a.timer.Stop()
		}
		delete(g.pending, id)
	}
	g.closed = true
}

func (g *LocalGateway) arm(n models.PendingNotification) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	if prev, ok := g.pending[n.ID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}
	a := &armed{req: n}
	g.pending[n.ID] = a
	delay := n.FireAt.Sub(g.clock.Now())
	if delay <= 0 {
		go g.fire(a)
		return
	}
	a.timer = g.clock.AfterFunc(delay, func() { g.fire(a) })
}

func (g *LocalGateway) fire(a *armed) {
	g.mu.Lock()
	if cur, ok := g.pending[a.req.ID]; !ok || cur != a {
		g.mu.Unlock()
		return
	}
	delete(g.pending, a.req.ID)
	delegate, presenter := g.delegate, g.presenter
	g.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := g.store.DeletePendingNotification(ctx, a.req.ID); err != nil {
		g.logger.Warn("drop delivered notification", zap.String("id", a.req.ID), zap.Error(err))
	}

	n := Notification{
		ID:          a.req.ID,
		Title:       a.req.Title,
		Body:        a.req.Body,
		Image:       a.req.Image,
		DeliveredAt: g.clock.Now(),
	}
	g.logger.Info("notification delivered", zap.String("id", n.ID), zap.String("title", n.Title))
	if delegate == nil {
		return
	}
	opts := delegate.WillPresent(ctx, n)
	if presenter != nil && opts != 0 {
		presenter.Present(n, opts)
	}
}
