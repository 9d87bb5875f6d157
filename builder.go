package adminauth

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/klinika/adminauth/gateway"
	"github.com/klinika/adminauth/session"
	"github.com/klinika/adminauth/token"
)

// Builder assembles an [Engine]. Configure it during initialization, call
// Build exactly once, and treat the result as immutable.
type Builder struct {
	config     Config
	store      session.Store
	httpClient *http.Client
	captcha    CaptchaProvider
	logger     *zap.Logger
	clock      func() time.Time

	built bool
}

// New creates a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the backend root without touching the rest of the config.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithTimeout bounds each backend request.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	if timeout > 0 {
		b.config.API.Timeout = timeout
	}
	return b
}

// WithResendCooldown sets the minimum gap between code requests.
func (b *Builder) WithResendCooldown(cooldown time.Duration) *Builder {
	if cooldown > 0 {
		b.config.SignIn.ResendCooldown = cooldown
	}
	return b
}

// WithDevBypassEnabled toggles the development bypass path. Off by default;
// never enable it against a production gateway.
func (b *Builder) WithDevBypassEnabled(enabled bool) *Builder {
	b.config.DevBypass.Enabled = enabled
	return b
}

// WithStore selects the token persistence backend. Defaults to
// [session.MemoryStore], which scopes the session to the process.
func (b *Builder) WithStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithHTTPClient supplies the underlying HTTP client whose transport the
// authorization binder wraps.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithCaptchaProvider enables the captcha step before code requests.
func (b *Builder) WithCaptchaProvider(provider CaptchaProvider) *Builder {
	b.captcha = provider
	return b
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock overrides the engine clock. Intended for tests exercising expiry
// and cooldown behavior.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// WithMetricsEnabled toggles the internal counter set.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the engine. A Builder builds
// at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	if err := validateConfig(b.config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store := b.store
	if store == nil {
		store = session.NewMemoryStore()
	}
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	codec := token.NewCodec(token.Config{
		Now:            clock,
		AllowDevBypass: b.config.DevBypass.Enabled,
	})

	client, err := gateway.NewClient(gateway.Config{
		BaseURL:         b.config.API.BaseURL,
		RequestCodePath: b.config.API.RequestCodePath,
		VerifyCodePath:  b.config.API.VerifyCodePath,
		ProfilePath:     b.config.API.ProfilePath,
		Timeout:         b.config.API.Timeout,
		Bypass: gateway.Bypass{
			Enabled:       b.config.DevBypass.Enabled,
			PhoneFragment: b.config.DevBypass.PhoneFragment,
			Token:         b.config.DevBypass.Token,
		},
	}, store, b.httpClient, logger)
	if err != nil {
		return nil, err
	}

	b.built = true
	return &Engine{
		config:   b.config,
		store:    store,
		gateway:  client,
		codec:    codec,
		captcha:  b.captcha,
		metrics:  NewMetrics(b.config.Metrics),
		logger:   logger,
		clock:    clock,
		snapshot: Snapshot{Status: StatusLoading},
	}, nil
}
