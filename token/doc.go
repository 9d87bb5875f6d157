// Package token decodes bearer access tokens for client-side session decisions:
// displaying claims and checking expiry before a profile fetch is attempted.
//
// # Architecture boundaries
//
// This package owns the [Codec] and the decoded [Claims] model. It performs an
// unverified decode of the token payload — signature verification is the
// backend's responsibility. Decisions made from these claims are advisory UI
// state only, never authorization.
//
// # What this package must NOT do
//
//   - Import adminauth, gateway, or session (no upward imports).
//   - Verify signatures or pretend to. There is no key material here.
//   - Persist or cache tokens; claims are recomputed from the raw string.
package token
