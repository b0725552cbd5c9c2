// Package server exposes the scheduler over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/notify"
	"github.com/akyairhashvil/nudge/internal/scheduler"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Service is the part of the scheduler the API drives.
type Service interface {
	List(ctx context.Context) ([]models.Alarm, error)
	Get(ctx context.Context, id string) (models.Alarm, error)
	Create(ctx context.Context, d scheduler.Draft) (models.Alarm, error)
	Complete(ctx context.Context, id string) (models.Alarm, bool, error)
	Deactivate(ctx context.Context, id string) (models.Alarm, error)
	UpdateRecurrence(ctx context.Context, id string, rec models.Recurrence) (models.Alarm, error)
	UpdateNote(ctx context.Context, id, text string) (models.Alarm, error)
	Rename(ctx context.Context, id, text string) (models.Alarm, error)
	SetIcon(ctx context.Context, id, icon string) (models.Alarm, error)
	Reorder(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context) ([]models.Alarm, error)
	Pending(ctx context.Context) ([]notify.PendingRequest, error)
}

// Permissions records the user's notification answer.
type Permissions interface {
	SetAuthorization(ctx context.Context, granted bool) error
	Settings(ctx context.Context) (notify.Settings, error)
}

type Server struct {
	svc    Service
	perms  Permissions
	logger *zap.Logger
	router chi.Router
}

func New(svc Service, perms Permissions, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, perms: perms, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/alarms", func(r chi.Router) {
		r.Get("/", s.listAlarms)
		r.Post("/", s.createAlarm)
		r.Post("/reorder", s.reorderAlarms)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getAlarm)
			r.Patch("/", s.editAlarm)
			r.Delete("/", s.deleteAlarm)
			r.Post("/complete", s.completeAlarm)
			r.Post("/deactivate", s.deactivateAlarm)
			r.Put("/recurrence", s.updateRecurrence)
			r.Put("/note", s.updateNote)
		})
	})

	r.Post("/scan", s.scan)
	r.Get("/notifications/pending", s.pendingNotifications)
	r.Get("/notifications/authorization", s.getAuthorization)
	r.Post("/notifications/authorization", s.setAuthorization)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
