package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/klinika/adminauth/session"
)

const requestIDHeader = "X-Request-Id"

// authTransport is the single authorization binder: it reads the session
// store immediately before dispatch and, if a token is present, attaches it
// as a bearer credential. Read-before-send is the contract that makes a
// completed Set visible to the very next request.
type authTransport struct {
	store session.Store
	next  http.RoundTripper
}

func newAuthTransport(store session.Store, next http.RoundTripper) *authTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &authTransport{store: store, next: next}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	// A store outage degrades to an unauthorized request; the backend's 401
	// is normalized downstream.
	if token, ok, err := t.store.Get(req.Context()); err == nil && ok {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	if out.Header.Get(requestIDHeader) == "" {
		id := requestIDFromContext(req.Context())
		if id == "" {
			id = uuid.NewString()
		}
		out.Header.Set(requestIDHeader, id)
	}

	return t.next.RoundTrip(out)
}
