package session

import (
	"context"
	"errors"
)

// ErrUnavailable wraps backend failures so callers can treat every storage
// outage the same way: log it and behave as signed out.
var ErrUnavailable = errors.New("session storage unavailable")

// Store holds at most one opaque access token.
//
// The authorization transport reads the store at send time, so a completed
// Set is observed by the very next outgoing request. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the persisted token. The second result is false when no
	// token is stored; absence is not an error.
	Get(ctx context.Context) (string, bool, error)

	// Set replaces the persisted token. An empty token clears the store.
	Set(ctx context.Context, token string) error

	// Clear removes the persisted token. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
