package test

import (
	"context"
	"testing"
	"time"

	adminauth "github.com/klinika/adminauth"
	"github.com/klinika/adminauth/gateway"
	"github.com/klinika/adminauth/session"
	"github.com/klinika/adminauth/token"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = adminauth.New

	var _ *adminauth.Engine
	var _ *adminauth.SignInFlow
	var _ adminauth.Config
	var _ adminauth.Snapshot
	var _ adminauth.Status
	var _ adminauth.SignInState
	var _ *adminauth.UserProfile
	var _ adminauth.CaptchaProvider
	var _ adminauth.MetricsSnapshot

	var _ error = adminauth.ErrEngineNotReady
	var _ error = adminauth.ErrAlreadyBuilt
	var _ error = adminauth.ErrResendCooldown
	var _ error = adminauth.ErrCodeNotRequested
	var _ error = adminauth.ErrSignInCompleted
	var _ error = adminauth.ErrCaptchaFailed
	var _ error = gateway.ErrTokenMissing
	var _ error = session.ErrUnavailable
	var _ error = token.ErrMalformed

	var _ session.Store = (*session.MemoryStore)(nil)
	var _ session.Store = (*session.BoltStore)(nil)
	var _ session.Store = (*session.RedisStore)(nil)

	var _ func(*adminauth.Engine, context.Context) adminauth.Snapshot = (*adminauth.Engine).CheckSession
	var _ func(*adminauth.Engine, context.Context) adminauth.Snapshot = (*adminauth.Engine).SignOut
	var _ func(*adminauth.Engine) adminauth.Snapshot = (*adminauth.Engine).Snapshot
	var _ func(*adminauth.Engine) *adminauth.SignInFlow = (*adminauth.Engine).NewSignInFlow
	var _ func(*adminauth.SignInFlow, context.Context, string) error = (*adminauth.SignInFlow).RequestCode
	var _ func(*adminauth.SignInFlow, context.Context, string) error = (*adminauth.SignInFlow).VerifyCode
	var _ func(*adminauth.SignInFlow) = (*adminauth.SignInFlow).Back
	var _ func(*adminauth.SignInFlow) time.Duration = (*adminauth.SignInFlow).ResendIn
}
