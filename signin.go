package adminauth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/klinika/adminauth/internal/phone"
)

// SignInState defines a public type used by adminauth APIs.
//
// SignInState instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SignInState uint8

const (
	// SignInIdle is the initial state: the user is entering a phone number.
	SignInIdle SignInState = iota
	// SignInCodeRequested means a code was sent and the cooldown is counting.
	SignInCodeRequested
	// SignInVerified means the exchange completed and the session was checked.
	SignInVerified
)

func (s SignInState) String() string {
	switch s {
	case SignInIdle:
		return "idle"
	case SignInCodeRequested:
		return "code_requested"
	case SignInVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// SignInFlow is the interactive two-step OTP exchange:
//
//	Idle -> CodeRequested -> Verified
//
// One flow serves one sign-in attempt; create a fresh one per login screen.
// Methods are serialized internally, but the flow expects the usual
// single-user interaction pattern rather than concurrent drivers.
type SignInFlow struct {
	engine *Engine

	mu            sync.Mutex
	state         SignInState
	phone         string
	cooldownUntil time.Time
}

// NewSignInFlow creates an idle flow bound to the engine's gateway, captcha
// provider, and cooldown configuration.
func (e *Engine) NewSignInFlow() *SignInFlow {
	return &SignInFlow{engine: e}
}

// State returns the flow's current step.
func (f *SignInFlow) State() SignInState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Phone returns the normalized number the code was requested for.
func (f *SignInFlow) Phone() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phone
}

// ResendIn returns how long until a new code may be requested; zero when
// resending is allowed.
func (f *SignInFlow) ResendIn() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	remaining := f.cooldownUntil.Sub(f.engine.clock())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RequestCode normalizes the phone number, runs the captcha step when one is
// configured, and asks the backend to send a code. On success the flow moves
// to CodeRequested and the resend cooldown starts. Requesting again before
// the cooldown elapses returns [ErrResendCooldown] without network traffic;
// any backend failure leaves the state unchanged and surfaces the normalized
// error message.
func (f *SignInFlow) RequestCode(ctx context.Context, rawPhone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == SignInVerified {
		return ErrSignInCompleted
	}

	engine := f.engine
	if engine == nil {
		return ErrEngineNotReady
	}

	now := engine.clock()
	if f.state == SignInCodeRequested && now.Before(f.cooldownUntil) {
		engine.metricInc(MetricCodeResendBlocked)
		return ErrResendCooldown
	}

	number := phone.Normalize(rawPhone)

	if engine.captcha != nil {
		if _, err := engine.captcha.Token(ctx, engine.config.SignIn.CaptchaAction); err != nil {
			engine.logger.Warn("captcha step failed", zap.Error(err))
			engine.metricInc(MetricCodeRequestFailure)
			return fmt.Errorf("%w: %v", ErrCaptchaFailed, err)
		}
	}

	if err := engine.gateway.RequestCode(ctx, number); err != nil {
		engine.metricInc(MetricCodeRequestFailure)
		return err
	}

	f.state = SignInCodeRequested
	f.phone = number
	f.cooldownUntil = now.Add(engine.config.SignIn.ResendCooldown)
	engine.metricInc(MetricCodeRequestSuccess)
	engine.logger.Info("verification code requested", zap.String("phone", number))
	return nil
}

// VerifyCode exchanges the received code for an access token, triggers a
// session check, and completes the flow. On failure the flow stays in
// CodeRequested so the user can retry or resend.
func (f *SignInFlow) VerifyCode(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case SignInVerified:
		return ErrSignInCompleted
	case SignInIdle:
		return ErrCodeNotRequested
	}

	engine := f.engine
	if _, err := engine.gateway.VerifyCode(ctx, f.phone, code); err != nil {
		engine.metricInc(MetricVerifyFailure)
		return err
	}

	f.state = SignInVerified
	engine.metricInc(MetricVerifySuccess)
	engine.logger.Info("sign-in verified", zap.String("phone", f.phone))

	// The token is already persisted; this establishes the profile and
	// publishes the authenticated snapshot before the caller redirects.
	engine.CheckSession(ctx)
	return nil
}

// Back returns from CodeRequested to Idle, dropping the pending code state
// and the cooldown. Nothing is re-sent; the phone number is retained for
// editing.
func (f *SignInFlow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SignInCodeRequested {
		return
	}
	f.state = SignInIdle
	f.cooldownUntil = time.Time{}
}
