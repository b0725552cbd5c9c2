// Package scheduler owns the alarm state machine. A single worker goroutine
// runs scans and user edits one at a time; notification scheduling happens
// off the worker and reports back through it.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/recurrence"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

var (
	ErrStopped      = errors.New("scheduler stopped")
	ErrNotRecurring = errors.New("alarm has no next occurrence")
	ErrInvalidInput = errors.New("invalid input")
)

const notifyTimeout = 10 * time.Second

// Observer receives the full alarm list after every committed change. It is
// called on the worker and must not call back into the scheduler.
type Observer func([]models.Alarm)

type Scheduler struct {
	store     Store
	gateway   Gateway
	clock     clock.Clock
	logger    *zap.Logger
	calc      *recurrence.Calculator
	icons     IconSource
	tempDir   string
	observers []Observer

	jobs     chan func()
	scanReq  chan struct{}
	stopped  chan struct{}
	started  atomic.Bool
	inflight inflight

	// worker-only
	arms   map[string]uint64
	armSeq uint64
}

// inflight counts background notification calls. Unlike sync.WaitGroup it
// may be incremented from zero while wait is blocked.
type inflight struct {
	mu   sync.Mutex
	n    int
	idle *sync.Cond
}

func (f *inflight) add() {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func (f *inflight) done() {
	f.mu.Lock()
	f.n--
	if f.n == 0 && f.idle != nil {
		f.idle.Broadcast()
	}
	f.mu.Unlock()
}

func (f *inflight) wait() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idle == nil {
		f.idle = sync.NewCond(&f.mu)
	}
	for f.n > 0 {
		f.idle.Wait()
	}
}

type Option func(*Scheduler)

func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

func WithCalculator(c *recurrence.Calculator) Option {
	return func(s *Scheduler) { s.calc = c }
}

// WithIcons sets the source of notification attachments. nil disables them.
func WithIcons(src IconSource) Option {
	return func(s *Scheduler) { s.icons = src }
}

// WithTempDir sets where icon attachments are written before hand-off.
func WithTempDir(dir string) Option {
	return func(s *Scheduler) { s.tempDir = dir }
}

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observers = append(s.observers, o) }
}

func New(store Store, gateway Gateway, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:   store,
		gateway: gateway,
		clock:   clock.New(),
		logger:  zap.NewNop(),
		calc:    recurrence.Default(),
		icons:   TileIcons{},
		tempDir: os.TempDir(),
		jobs:    make(chan func()),
		scanReq: make(chan struct{}, 1),
		stopped: make(chan struct{}),
		arms:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes queued work until ctx is cancelled. Every other operation
// except ScheduleNotification and CancelNotification needs Run to be active.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("scheduler already running")
	}
	defer close(s.stopped)
	s.logger.Debug("scheduler worker started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("scheduler worker stopped")
			return nil
		case job := <-s.jobs:
			job()
		case <-s.scanReq:
			if _, err := s.scan(ctx); err != nil {
				s.logger.Error("background scan failed", zap.Error(err))
			}
		}
	}
}

// Wait blocks until in-flight notification calls have finished. Work started
// while it waits is waited for as well.
func (s *Scheduler) Wait() {
	s.inflight.wait()
}

// call runs fn on the worker and waits for its result.
func call[T any](ctx context.Context, s *Scheduler, fn func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	var zero T
	done := make(chan result, 1)
	job := func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}
	select {
	case s.jobs <- job:
	case <-s.stopped:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Scan activates every alarm whose activation instant has passed and
// returns the alarms it activated.
func (s *Scheduler) Scan(ctx context.Context) ([]models.Alarm, error) {
	return call(ctx, s, s.scan)
}

// ScanAsync queues a scan without waiting. Requests made while one is
// already queued are merged into it.
func (s *Scheduler) ScanAsync() {
	select {
	case s.scanReq <- struct{}{}:
	default:
	}
}

func (s *Scheduler) scan(ctx context.Context) ([]models.Alarm, error) {
	now := s.clock.Now()
	due, err := s.store.DueAlarms(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(due) == 0 {
		return nil, nil
	}

	armed := make(map[string]string, len(due))
	for i := range due {
		armed[due[i].ID] = due[i].NotificationID
		due[i].Activate(now)
	}
	applied, err := s.store.CommitActivations(ctx, due, now)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	ok := make(map[string]bool, len(applied))
	for _, id := range applied {
		ok[id] = true
	}
	activated := make([]models.Alarm, 0, len(applied))
	for _, a := range due {
		if !ok[a.ID] {
			continue
		}
		activated = append(activated, a)
		s.CancelNotification(armed[a.ID])
	}
	s.logger.Info("scan complete",
		zap.Time("now", now),
		zap.Int("due", len(due)),
		zap.Int("activated", len(activated)))
	if len(activated) > 0 {
		s.publish(ctx)
	}
	return activated, nil
}

// publish runs on the worker.
func (s *Scheduler) publish(ctx context.Context) {
	if len(s.observers) == 0 {
		return
	}
	alarms, err := s.store.ListAlarms(ctx)
	if err != nil {
		s.logger.Warn("list alarms for observers", zap.Error(err))
		return
	}
	for _, o := range s.observers {
		o(alarms)
	}
}
