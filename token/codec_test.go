package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func encodeSegment(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal segment failed: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// makeToken builds an unsigned three-segment token. The backend signs real
// tokens; the codec never checks signatures, so a dummy one is enough.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := encodeSegment(t, map[string]any{"alg": "none", "typ": "JWT"})
	payload := encodeSegment(t, claims)
	return header + "." + payload + ".sig"
}

func TestDecodeExtractsRegisteredClaims(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(Config{Now: fixedClock(now)})

	raw := makeToken(t, map[string]any{
		"sub":  "42",
		"iat":  now.Add(-time.Hour).Unix(),
		"exp":  now.Add(time.Hour).Unix(),
		"role": "ADMIN",
	})

	claims, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", claims.Subject)
	}
	if !claims.IssuedAt.Equal(now.Add(-time.Hour)) {
		t.Fatalf("unexpected iat: %v", claims.IssuedAt)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected exp: %v", claims.ExpiresAt)
	}
	if claims.Extras["role"] != "ADMIN" {
		t.Fatalf("expected extras to carry arbitrary claims, got %v", claims.Extras)
	}
}

func TestDecodeMalformedInputs(t *testing.T) {
	codec := NewCodec(Config{})

	cases := map[string]string{
		"empty":            "",
		"one segment":      "justgarbage",
		"two segments":     "abc.def",
		"bad base64":       "abc.!!!.ghi",
		"non json payload": "abc.def.ghi",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := codec.Decode(raw); err == nil {
				t.Fatalf("expected decode error for %q", raw)
			}
		})
	}
}

func TestValidExpiryPolicy(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(Config{Now: fixedClock(now)})

	cases := []struct {
		name   string
		claims map[string]any
		want   bool
	}{
		{"future exp", map[string]any{"sub": "u1", "exp": now.Add(time.Minute).Unix()}, true},
		{"past exp", map[string]any{"sub": "u1", "exp": now.Add(-time.Minute).Unix()}, false},
		{"exp exactly now", map[string]any{"sub": "u1", "exp": now.Unix()}, false},
		{"no exp never expires", map[string]any{"sub": "u1"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := codec.Valid(makeToken(t, tc.claims)); got != tc.want {
				t.Fatalf("Valid = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidRejectsMalformed(t *testing.T) {
	codec := NewCodec(Config{})
	if codec.Valid("not.a.token") {
		t.Fatal("malformed token must not validate")
	}
}

func TestDevBypassTokenGated(t *testing.T) {
	disabled := NewCodec(Config{})
	if disabled.Valid(DevBypassToken) {
		t.Fatal("bypass literal must be invalid when bypass is disabled")
	}

	enabled := NewCodec(Config{AllowDevBypass: true})
	if !enabled.Valid(DevBypassToken) {
		t.Fatal("bypass literal must validate when bypass is enabled")
	}
	if _, err := enabled.Decode(DevBypassToken); err == nil {
		t.Fatal("bypass literal must not decode as a real token")
	}
}
