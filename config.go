package adminauth

import (
	"errors"
	"time"

	"github.com/klinika/adminauth/token"
)

// Config defines a public type used by adminauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API       APIConfig
	SignIn    SignInConfig
	DevBypass DevBypassConfig
	Metrics   MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the clinic-directory backend.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	// BaseURL is the backend root. Required.
	BaseURL string

	// Endpoint paths; zero values select the backend defaults.
	RequestCodePath string
	VerifyCodePath  string
	ProfilePath     string

	// SelfID is the identifier the profile endpoint resolves to the caller.
	SelfID string

	// Timeout applies to every outgoing request.
	Timeout time.Duration
}

/*
====================================
SIGN-IN CONFIG
====================================
*/

// SignInConfig tunes the two-step OTP flow.
//
// SignInConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SignInConfig struct {
	// ResendCooldown blocks re-requesting a code until it elapses.
	ResendCooldown time.Duration

	// CaptchaAction is the action label passed to the captcha provider.
	CaptchaAction string
}

/*
====================================
DEVELOPER BYPASS CONFIG
====================================
*/

// DevBypassConfig gates the development short-circuit. It ships disabled:
// the magic phone fragment and reserved token are only honored when Enabled
// is set, which production builds must never do.
//
// DevBypassConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DevBypassConfig struct {
	Enabled       bool
	PhoneFragment string
	Token         string
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by adminauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			RequestCodePath: "/admin/login/request",
			VerifyCodePath:  "/admin/login/verify",
			ProfilePath:     "/users/",
			SelfID:          "me",
			Timeout:         30 * time.Second,
		},
		SignIn: SignInConfig{
			ResendCooldown: 60 * time.Second,
			CaptchaAction:  "login_request",
		},
		DevBypass: DevBypassConfig{
			Enabled:       false,
			PhoneFragment: "950094443",
			Token:         token.DevBypassToken,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the copy is the clone.
	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.API.BaseURL == "" {
		return errors.New("API.BaseURL is required")
	}
	if cfg.API.SelfID == "" {
		return errors.New("API.SelfID must not be empty")
	}
	if cfg.SignIn.ResendCooldown <= 0 {
		return errors.New("SignIn.ResendCooldown must be positive")
	}
	if cfg.DevBypass.Enabled {
		if cfg.DevBypass.PhoneFragment == "" || cfg.DevBypass.Token == "" {
			return errors.New("DevBypass requires a phone fragment and token when enabled")
		}
	}
	return nil
}
