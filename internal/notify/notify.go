// Package notify models the host's local notification facility: permission
// state, delayed requests, cancellation and delivery callbacks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/nudge/internal/database"
)

// ErrNotAuthorized is returned when the user has not granted notification
// permission or has disabled alerts.
var ErrNotAuthorized = errors.New("notifications not authorized")

type AuthorizationStatus int

const (
	NotDetermined AuthorizationStatus = iota
	Denied
	Authorized
)

func (s AuthorizationStatus) String() string {
	switch s {
	case Denied:
		return "denied"
	case Authorized:
		return "authorized"
	default:
		return "not_determined"
	}
}

func ParseAuthorizationStatus(s string) (AuthorizationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "not_determined":
		return NotDetermined, nil
	case "denied":
		return Denied, nil
	case "authorized":
		return Authorized, nil
	}
	return NotDetermined, fmt.Errorf("unknown authorization status %q", s)
}

// Settings is the permission snapshot read at scheduling time.
type Settings struct {
	Status        AuthorizationStatus
	AlertsEnabled bool
}

// CanSchedule reports whether a request may be handed to the gateway.
func (s Settings) CanSchedule() bool {
	return s.Status == Authorized && s.AlertsEnabled
}

// Attachment references an image file on disk. The gateway copies its
// contents when the request is added, so the file may be removed afterwards.
type Attachment struct {
	Path string
	Type string
}

type Request struct {
	ID         string
	Title      string
	Body       string
	Delay      time.Duration
	Attachment *Attachment
}

// PendingRequest describes a request that has not been delivered yet.
type PendingRequest struct {
	ID       string
	Title    string
	Body     string
	FireAt   time.Time
	HasImage bool
}

// Notification is a delivered request.
type Notification struct {
	ID          string
	Title       string
	Body        string
	Image       []byte
	DeliveredAt time.Time
}

type PresentationOptions uint8

const (
	PresentAlert PresentationOptions = 1 << iota
	PresentSound
	PresentBadge
)

func (o PresentationOptions) Has(flag PresentationOptions) bool {
	return o&flag != 0
}

// Delegate decides how a delivered notification is presented.
type Delegate interface {
	WillPresent(ctx context.Context, n Notification) PresentationOptions
}

// Presenter shows a delivered notification to the user.
type Presenter interface {
	Present(n Notification, opts PresentationOptions)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(n Notification, opts PresentationOptions)

func (f PresenterFunc) Present(n Notification, opts PresentationOptions) { f(n, opts) }

// Authorizer asks the user for permission. It is only consulted while the
// status is still undetermined.
type Authorizer func(ctx context.Context) (bool, error)

// Store is the persistence the local gateway needs.
type Store interface {
	database.NotificationRepository
	database.SettingsRepository
}
