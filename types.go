package adminauth

import (
	"context"

	"github.com/klinika/adminauth/gateway"
)

// Status represents the settled state of the session machine.
//
//	Loading -> Authenticated | Unauthenticated
//
// Both settled states are re-enterable by running the check again; Loading is
// only ever observed before the first CheckSession completes.
type Status uint8

const (
	// StatusLoading is the initial state before the first session check.
	StatusLoading Status = iota
	// StatusAuthenticated means a profile was established for the session.
	StatusAuthenticated
	// StatusUnauthenticated means no usable session exists.
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// UserProfile is the backend's user representation, re-exported so consumers
// never import the gateway package directly.
type UserProfile = gateway.Profile

// RoleAdmin is the role the admin dashboard gates its routes on.
const RoleAdmin = "ADMIN"

// Snapshot is the immutable view of the session published to the rest of the
// application. User is nil unless Status is StatusAuthenticated.
type Snapshot struct {
	User   *UserProfile
	Status Status
}

// Authenticated reports whether the snapshot carries an established session.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// HasRole reports whether the snapshot's user carries the given role. Route
// guards use this; it is advisory UI state, the backend still authorizes
// every request.
func (s Snapshot) HasRole(role string) bool {
	return s.User.HasRole(role)
}

// CaptchaProvider supplies a captcha token before a code request is sent.
// Implementations typically wrap an invisible-captcha widget or service
// client; a nil provider disables the step entirely.
type CaptchaProvider interface {
	Token(ctx context.Context, action string) (string, error)
}
