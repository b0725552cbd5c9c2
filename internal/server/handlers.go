package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/scheduler"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

type alarmView struct {
	ID             string     `json:"id"`
	DisplayText    string     `json:"displayText"`
	Icon           string     `json:"icon"`
	Recurrence     string     `json:"recurrence"`
	State          string     `json:"state"`
	NextActivation *time.Time `json:"nextActivation,omitempty"`
	Note           string     `json:"note,omitempty"`
	NoteCreatedAt  *time.Time `json:"noteCreatedAt,omitempty"`
	SortOrder      int        `json:"sortOrder"`
	NotificationID string     `json:"notificationId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func newAlarmView(a models.Alarm) alarmView {
	v := alarmView{
		ID:             a.ID,
		DisplayText:    a.DisplayText,
		Icon:           a.Icon,
		Recurrence:     a.Recurrence.String(),
		State:          string(a.Section()),
		Note:           a.Note.Text,
		SortOrder:      a.SortOrder,
		NotificationID: a.NotificationID,
		CreatedAt:      a.CreatedAt,
	}
	if next, ok := a.NextActivation(); ok {
		v.NextActivation = &next
	}
	if !a.Note.CreatedAt.IsZero() {
		created := a.Note.CreatedAt
		v.NoteCreatedAt = &created
	}
	return v
}

func newAlarmViews(alarms []models.Alarm) []alarmView {
	out := make([]alarmView, 0, len(alarms))
	for _, a := range alarms {
		out = append(out, newAlarmView(a))
	}
	return out
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, scheduler.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAlarmNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNotActive), errors.Is(err, scheduler.ErrNotRecurring):
		return http.StatusConflict
	case errors.Is(err, scheduler.ErrStopped):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("error parsing request body: %v", err)
	}
	return nil
}

func (s *Server) listAlarms(w http.ResponseWriter, r *http.Request) {
	alarms, err := s.svc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAlarmViews(alarms))
}

func (s *Server) getAlarm(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAlarmView(a))
}

func (s *Server) createAlarm(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		DisplayText string `json:"displayText,omitempty"`
		Icon        string `json:"icon,omitempty"`
		Recurrence  string `json:"recurrence,omitempty"`
	}{}
	if err := decode(r, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	d := scheduler.Draft{DisplayText: req.DisplayText, Icon: req.Icon}
	if req.Recurrence != "" {
		rec, err := models.ParseRecurrence(req.Recurrence)
		if err != nil {
			s.writeError(w, r, badRequest("%v", err))
			return
		}
		d.Recurrence = &rec
	}
	a, err := s.svc.Create(r.Context(), d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAlarmView(a))
}

func (s *Server) editAlarm(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		DisplayText *string `json:"displayText,omitempty"`
		Icon        *string `json:"icon,omitempty"`
	}{}
	if err := decode(r, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.DisplayText == nil && req.Icon == nil {
		s.writeError(w, r, badRequest("nothing to update"))
		return
	}
	id := chi.URLParam(r, "id")
	var (
		a   models.Alarm
		err error
	)
	if req.DisplayText != nil {
		if a, err = s.svc.Rename(r.Context(), id, *req.DisplayText); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Icon != nil {
		if a, err = s.svc.SetIcon(r.Context(), id, *req.Icon); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, newAlarmView(a))
}

func (s *Server) deleteAlarm(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) completeAlarm(w http.ResponseWriter, r *http.Request) {
	a, deleted, err := s.svc.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if deleted {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, newAlarmView(a))
}

func (s *Server) deactivateAlarm(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAlarmView(a))
}

func (s *Server) updateRecurrence(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Recurrence string `json:"recurrence"`
	}{}
	if err := decode(r, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := models.ParseRecurrence(req.Recurrence)
	if err != nil {
		s.writeError(w, r, badRequest("%v", err))
		return
	}
	a, err := s.svc.UpdateRecurrence(r.Context(), chi.URLParam(r, "id"), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAlarmView(a))
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Note string `json:"note"`
	}{}
	if err := decode(r, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.svc.UpdateNote(r.Context(), chi.URLParam(r, "id"), req.Note)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAlarmView(a))
}

func (s *Server) reorderAlarms(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		IDs []string `json:"ids"`
	}{}
	if err := decode(r, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.IDs) == 0 {
		s.writeError(w, r, badRequest("ids is empty"))
		return
	}
	if err := s.svc.Reorder(r.Context(), req.IDs); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	activated, err := s.svc.Scan(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activated": newAlarmViews(activated)})
}

type pendingView struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	FireAt   time.Time `json:"fireAt"`
	HasImage bool      `json:"hasImage"`
}

func (s *Server) pendingNotifications(w http.ResponseWriter, r *http.Request) {
	pending, err := s.svc.Pending(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]pendingView, 0, len(pending))
	for _, p := range pending {
		out = append(out, pendingView{ID: p.ID, Title: p.Title, Body: p.Body, FireAt: p.FireAt, HasImage: p.HasImage})
	}
	writeJSON(w, http.StatusOK, out)
}

type authorizationView struct {
	Status        string `json:"status"`
	AlertsEnabled bool   `json:"alertsEnabled"`
}

func (s *Server) getAuthorization(w http.ResponseWriter, r *http.Request) {
	settings, err := s.perms.Settings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authorizationView{Status: settings.Status.String(), AlertsEnabled: settings.AlertsEnabled})
}

func (s *Server) setAuthorization(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Granted *bool `json:"granted"`
	}{}
	if err := decode(r, req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Granted == nil {
		s.writeError(w, r, badRequest("granted is required"))
		return
	}
	if err := s.perms.SetAuthorization(r.Context(), *req.Granted); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.getAuthorization(w, r)
}
