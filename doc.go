// Package adminauth implements the authentication session lifecycle of the
// clinic-directory admin client: phone/OTP sign-in, token persistence, bearer
// authorization of outgoing requests, and the session-check state machine
// that settles every start into Authenticated or Unauthenticated.
//
// The package is designed around one session per running application:
// construct an [Engine] once through [Builder.Build], run
// [Engine.CheckSession] at startup, and read [Engine.Snapshot] everywhere a
// route guard or view needs the current user.
//
// # Architecture boundaries
//
// adminauth is the public surface. It exposes [Engine], [Builder], [Config],
// [SignInFlow], and value types (Snapshot, MetricsSnapshot). Wire concerns
// live in gateway, token decoding in token, persistence in session — this
// package orchestrates them and owns the state machine.
//
// # What this package must NOT do
//
//   - Trust the decoded token for authorization. Expiry checks here gate UI
//     state only; the backend decides what the token is good for.
//   - Retry network failures. Every failure is reported once through the
//     normalized gateway error shape.
//   - Leave the session in Loading. CheckSession fails closed to
//     Unauthenticated on any error.
package adminauth
