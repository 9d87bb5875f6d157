// Package gateway is the thin HTTP client for the clinic-directory admin
// backend: it issues the two OTP sign-in calls, fetches the current profile,
// and attaches the bearer credential to every outgoing request.
//
// # Architecture boundaries
//
// The gateway owns wire concerns only: paths, request/response shapes, the
// authorization transport, and failure normalization. Every HTTP failure is
// converted to [*APIError] before it leaves this package — no raw transport
// error crosses into the sign-in flow or the Engine.
//
// # What this package must NOT do
//
//   - Decide authentication state; it reports results, the Engine decides.
//   - Decode or expiry-check tokens; that belongs to the token package.
//   - Retry. Failures are reported once and never retried automatically.
package gateway
