// Package session persists the current access token for the lifetime of an
// admin session. It is the single source of truth the authorization transport
// reads before every outgoing request.
//
// # Backends
//
// [MemoryStore] scopes the token to the process, matching the browser
// session-storage semantics of the original dashboard: nothing survives a
// restart and sign-in is required each run. [BoltStore] persists the token in
// a local bbolt file so a CLI session spans invocations. [RedisStore] shares
// the token between instances behind one gateway.
//
// # Architecture boundaries
//
// This package owns token persistence only. It does NOT interpret tokens,
// talk to the backend, or decide authentication state — those belong to the
// token codec, the gateway, and the Engine.
//
// # What this package must NOT do
//
//   - Import adminauth, token, or gateway (no upward imports).
//   - Validate or decode the stored value; it is an opaque string.
//   - Turn storage outages into authentication failures. Callers degrade to
//     signed-out on error.
package session
