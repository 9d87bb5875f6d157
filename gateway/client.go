package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/klinika/adminauth/session"
	"github.com/klinika/adminauth/token"
)

const (
	defaultRequestCodePath = "/admin/login/request"
	defaultVerifyCodePath  = "/admin/login/verify"
	defaultProfilePath     = "/users/"
	defaultBypassFragment  = "950094443"
	defaultTimeout         = 30 * time.Second

	// maxErrorBody bounds how much of a failure response is read for
	// normalization.
	maxErrorBody = 64 << 10
)

// Bypass configures the developer short-circuit. Disabled by default; when
// enabled, phone numbers containing PhoneFragment skip the network entirely
// and Token is handed out as the credential.
//
// Bypass instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Bypass struct {
	Enabled       bool
	PhoneFragment string
	Token         string
}

// Config defines a public type used by adminauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// BaseURL is the backend root, e.g. "https://clinic.example.com".
	// Required.
	BaseURL string

	// Endpoint paths. Zero values select the defaults above.
	RequestCodePath string
	VerifyCodePath  string
	ProfilePath     string

	// Timeout applies to every request when the supplied http.Client does
	// not set its own.
	Timeout time.Duration

	Bypass Bypass
}

// Client issues the authentication calls and authorizes every other request
// through its transport. Construct it once; it is safe for concurrent use.
type Client struct {
	config Config
	base   *url.URL
	http   *http.Client
	store  session.Store
	logger *zap.Logger
}

// NewClient validates cfg, applies defaults, and wraps httpClient's
// transport with the authorization binder. A nil httpClient uses defaults;
// a nil logger discards.
func NewClient(cfg Config, store session.Store, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if store == nil {
		return nil, errors.New("gateway: nil session store")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway: base URL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: base URL must be absolute, got %q", cfg.BaseURL)
	}

	if cfg.RequestCodePath == "" {
		cfg.RequestCodePath = defaultRequestCodePath
	}
	if cfg.VerifyCodePath == "" {
		cfg.VerifyCodePath = defaultVerifyCodePath
	}
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = defaultProfilePath
	}
	if cfg.Bypass.PhoneFragment == "" {
		cfg.Bypass.PhoneFragment = defaultBypassFragment
	}
	if cfg.Bypass.Token == "" {
		cfg.Bypass.Token = token.DevBypassToken
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var inner http.RoundTripper
	timeout := cfg.Timeout
	if httpClient != nil {
		inner = httpClient.Transport
		if httpClient.Timeout > 0 {
			timeout = httpClient.Timeout
		}
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		config: cfg,
		base:   base,
		http: &http.Client{
			Transport: newAuthTransport(store, inner),
			Timeout:   timeout,
		},
		store:  store,
		logger: logger,
	}, nil
}

// RequestCode asks the backend to send an OTP to the given phone number.
// A bypass phone returns synthetic success with no network traffic.
func (c *Client) RequestCode(ctx context.Context, phone string) error {
	if c.bypassed(phone) {
		c.logger.Debug("developer bypass: skipping code request", zap.String("phone", phone))
		return nil
	}

	body := map[string]string{"phone_number": phone}
	var ack struct {
		Message string `json:"message"`
	}
	return c.post(ctx, c.config.RequestCodePath, body, &ack)
}

// VerifyCode exchanges phone+code for an access token. On success the token
// is written to the session store before returning, so the very next request
// (typically the profile fetch) is already authorized. A bypass phone yields
// the reserved token without contacting the backend.
func (c *Client) VerifyCode(ctx context.Context, phone, code string) (string, error) {
	if c.bypassed(phone) {
		c.logger.Debug("developer bypass: issuing reserved token", zap.String("phone", phone))
		c.persist(ctx, c.config.Bypass.Token)
		return c.config.Bypass.Token, nil
	}

	body := map[string]string{"phone_number": phone, "code": code}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.post(ctx, c.config.VerifyCodePath, body, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrTokenMissing
	}

	c.persist(ctx, out.AccessToken)
	return out.AccessToken, nil
}

// FetchProfile loads the user resource; id "me" resolves to the caller.
func (c *Client) FetchProfile(ctx context.Context, id string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, c.config.ProfilePath+url.PathEscape(id), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Store exposes the session store the client authorizes from.
func (c *Client) Store() session.Store {
	return c.store
}

func (c *Client) bypassed(phone string) bool {
	return c.config.Bypass.Enabled && strings.Contains(phone, c.config.Bypass.PhoneFragment)
}

// persist writes the token; storage failure degrades to signed-out later
// instead of failing the exchange.
func (c *Client) persist(ctx context.Context, tok string) {
	if err := c.store.Set(ctx, tok); err != nil {
		c.logger.Warn("session store write failed", zap.Error(err))
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("gateway: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) resolve(path string) string {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	base := *c.base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String()
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("transport failure", zap.String("url", req.URL.String()), zap.Error(err))
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := responseError(resp.StatusCode, body)
		c.logger.Debug("backend rejected request",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail))
		return apiErr
	}

	if out == nil {
		return nil
	}
	// Some endpoints ack with a bare 2xx and no body; an empty body on a
	// success status is success, out keeps its zero value.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &APIError{Status: resp.StatusCode, Message: "unreadable response body", cause: err}
	}
	return nil
}
