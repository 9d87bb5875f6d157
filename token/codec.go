package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevBypassToken is the reserved literal recognized as always-valid when the
// developer bypass is enabled. It never reaches the decoder.
const DevBypassToken = "mock_token_for_development"

// ErrMalformed is returned when the raw token is not a decodable three-segment
// JWS or its payload is not a JSON claim set.
var ErrMalformed = errors.New("malformed token")

// Claims is the decoded payload of an access token. Fields are zero-valued
// when the corresponding claim is absent.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Extras holds the full raw claim set, registered claims included.
	Extras map[string]any
}

// Config defines a public type used by adminauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// Now supplies the clock used for expiry checks. Defaults to time.Now.
	Now func() time.Time

	// AllowDevBypass enables recognition of [DevBypassToken]. Off by default;
	// production builds must not set it.
	AllowDevBypass bool
}

// Codec decodes and expiry-checks bearer tokens without verifying signatures.
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	config Config
}

// NewCodec creates a [Codec] from cfg, applying defaults for unset fields.
func NewCodec(cfg Config) *Codec {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Codec{config: cfg}
}

// Decode splits raw into its JWS segments, base64url-decodes the payload, and
// parses it as a claim set. Malformed input yields an error wrapping
// [ErrMalformed]; it never panics. The reserved bypass literal is rejected
// here even when the bypass is enabled — callers short-circuit before
// decoding.
func (c *Codec) Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformed)
	}

	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mapClaims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims := &Claims{Extras: map[string]any(mapClaims)}

	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid exp claim: %v", ErrMalformed, err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

// Valid reports whether raw represents a usable session credential: either
// the enabled bypass literal, or a decodable token that is not expired.
//
// This check is advisory. The backend remains the authority on whether the
// token is actually accepted.
func (c *Codec) Valid(raw string) bool {
	if c.config.AllowDevBypass && raw == DevBypassToken {
		return true
	}

	claims, err := c.Decode(raw)
	if err != nil {
		return false
	}
	return !c.expired(claims)
}

// expired is the single place the missing-exp policy lives: a token that
// carries no exp claim never expires. Tighten here, not at call sites.
func (c *Codec) expired(claims *Claims) bool {
	if claims.ExpiresAt.IsZero() {
		return false
	}
	return !claims.ExpiresAt.After(c.config.Now())
}
