package adminauth

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the session engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrAlreadyBuilt is an exported constant or variable used by the session engine.
	ErrAlreadyBuilt = errors.New("builder already built")
	// ErrResendCooldown is returned when a code is re-requested before the cooldown elapses.
	ErrResendCooldown = errors.New("resend cooldown active")
	// ErrCodeNotRequested is returned when verification is attempted before a code was requested.
	ErrCodeNotRequested = errors.New("no verification code requested")
	// ErrSignInCompleted is returned when a finished flow is asked to verify again.
	ErrSignInCompleted = errors.New("sign-in already completed")
	// ErrCaptchaFailed is returned when the configured captcha provider could not produce a token.
	ErrCaptchaFailed = errors.New("captcha verification failed")
)
