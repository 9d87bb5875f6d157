package adminauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klinika/adminauth/gateway"
	"github.com/klinika/adminauth/session"
)

type signInFixture struct {
	engine      *Engine
	flow        *SignInFlow
	store       *session.MemoryStore
	clock       *testClock
	requestHits *atomic.Int64
	verifyHits  *atomic.Int64
	profileHits *atomic.Int64
	verifyCode  string
	token       string
}

// newSignInFixture stands up a fake backend implementing the full OTP
// exchange plus the profile endpoint.
func newSignInFixture(t *testing.T, mutate func(*Config)) *signInFixture {
	t.Helper()

	fx := &signInFixture{
		requestHits: &atomic.Int64{},
		verifyHits:  &atomic.Int64{},
		profileHits: &atomic.Int64{},
		verifyCode:  "123456",
	}
	fx.token = makeTokenForFixture(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/admin/login/request", func(w http.ResponseWriter, r *http.Request) {
		fx.requestHits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "code sent"})
	})
	mux.HandleFunc("/admin/login/verify", func(w http.ResponseWriter, r *http.Request) {
		fx.verifyHits.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["code"] != fx.verifyCode {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "wrong code"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": fx.token})
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		fx.profileHits.Add(1)
		_ = json.NewEncoder(w).Encode(UserProfile{
			ID:          "u1",
			DisplayName: "Admin",
			Roles:       []string{RoleAdmin},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := defaultConfig()
	cfg.API.BaseURL = server.URL
	if mutate != nil {
		mutate(&cfg)
	}

	fx.store = session.NewMemoryStore()
	fx.clock = newTestClock()
	engine, err := New().
		WithConfig(cfg).
		WithStore(fx.store).
		WithClock(fx.clock.Now).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	fx.engine = engine
	fx.flow = engine.NewSignInFlow()
	return fx
}

func makeTokenForFixture(t *testing.T) string {
	t.Helper()
	// No exp claim: exercises the never-expires leniency on the happy path.
	return makeToken(t, map[string]any{"sub": "u1"})
}

func TestSignInEndToEnd(t *testing.T) {
	fx := newSignInFixture(t, nil)
	ctx := context.Background()

	if err := fx.flow.RequestCode(ctx, "+998901234567"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if fx.flow.State() != SignInCodeRequested {
		t.Fatalf("state = %v, want code_requested", fx.flow.State())
	}
	if fx.flow.Phone() != "+998901234567" {
		t.Fatalf("unexpected phone: %q", fx.flow.Phone())
	}

	if err := fx.flow.VerifyCode(ctx, "123456"); err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if fx.flow.State() != SignInVerified {
		t.Fatalf("state = %v, want verified", fx.flow.State())
	}

	stored, ok, _ := fx.store.Get(ctx)
	if !ok || stored != fx.token {
		t.Fatalf("store holds %q, want the issued token", stored)
	}

	snap := fx.engine.Snapshot()
	if snap.Status != StatusAuthenticated {
		t.Fatalf("expected authenticated after verify, got %v", snap.Status)
	}
	if snap.User.AccessToken != fx.token {
		t.Fatal("profile must be merged with the issued token")
	}
	if fx.profileHits.Load() != 1 {
		t.Fatalf("expected one profile fetch, got %d", fx.profileHits.Load())
	}
}

func TestVerifyFailureStaysInCodeRequested(t *testing.T) {
	fx := newSignInFixture(t, nil)
	ctx := context.Background()

	if err := fx.flow.RequestCode(ctx, "901234567"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}

	err := fx.flow.VerifyCode(ctx, "000000")
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected normalized APIError, got %v", err)
	}
	if apiErr.Error() != "wrong code" {
		t.Fatalf("expected backend detail surfaced, got %q", apiErr.Error())
	}
	if fx.flow.State() != SignInCodeRequested {
		t.Fatal("failed verify must keep the flow in code_requested")
	}

	// Retry with the right code still works.
	if err := fx.flow.VerifyCode(ctx, "123456"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestVerifyBeforeRequestRejected(t *testing.T) {
	fx := newSignInFixture(t, nil)
	if err := fx.flow.VerifyCode(context.Background(), "123456"); !errors.Is(err, ErrCodeNotRequested) {
		t.Fatalf("expected ErrCodeNotRequested, got %v", err)
	}
}

func TestResendCooldown(t *testing.T) {
	fx := newSignInFixture(t, nil)
	ctx := context.Background()

	if err := fx.flow.RequestCode(ctx, "+998901234567"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if fx.flow.ResendIn() != 60*time.Second {
		t.Fatalf("cooldown = %v, want 60s", fx.flow.ResendIn())
	}

	if err := fx.flow.RequestCode(ctx, "+998901234567"); !errors.Is(err, ErrResendCooldown) {
		t.Fatalf("expected ErrResendCooldown, got %v", err)
	}
	if fx.requestHits.Load() != 1 {
		t.Fatal("blocked resend must not reach the backend")
	}

	fx.clock.Advance(61 * time.Second)
	if fx.flow.ResendIn() != 0 {
		t.Fatalf("cooldown should have elapsed, got %v", fx.flow.ResendIn())
	}
	if err := fx.flow.RequestCode(ctx, "+998901234567"); err != nil {
		t.Fatalf("resend after cooldown failed: %v", err)
	}
	if fx.requestHits.Load() != 2 {
		t.Fatalf("expected second request, got %d", fx.requestHits.Load())
	}
}

func TestBackResetsCooldownAndCode(t *testing.T) {
	fx := newSignInFixture(t, nil)
	ctx := context.Background()

	if err := fx.flow.RequestCode(ctx, "+998901234567"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}

	fx.flow.Back()
	if fx.flow.State() != SignInIdle {
		t.Fatalf("state = %v, want idle after back", fx.flow.State())
	}
	if fx.flow.ResendIn() != 0 {
		t.Fatal("back must reset the cooldown")
	}
	if fx.flow.Phone() != "+998901234567" {
		t.Fatal("back keeps the phone for editing")
	}

	// Back does not re-send anything, and a fresh request is allowed
	// immediately.
	if fx.requestHits.Load() != 1 {
		t.Fatal("back must not issue network traffic")
	}
	if err := fx.flow.RequestCode(ctx, "+998901234567"); err != nil {
		t.Fatalf("request after back failed: %v", err)
	}
}

func TestBypassPhoneShortCircuitsBothSteps(t *testing.T) {
	fx := newSignInFixture(t, func(cfg *Config) {
		cfg.DevBypass.Enabled = true
	})
	ctx := context.Background()

	if err := fx.flow.RequestCode(ctx, "950094443"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if err := fx.flow.VerifyCode(ctx, "anything"); err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if fx.flow.State() != SignInVerified {
		t.Fatalf("state = %v, want verified", fx.flow.State())
	}

	if n := fx.requestHits.Load() + fx.verifyHits.Load() + fx.profileHits.Load(); n != 0 {
		t.Fatalf("bypass must not touch the network, saw %d calls", n)
	}

	snap := fx.engine.Snapshot()
	if !snap.Authenticated() || !snap.HasRole(RoleAdmin) {
		t.Fatalf("expected authenticated ADMIN bypass session, got %+v", snap)
	}
}

type fakeCaptcha struct {
	err     error
	actions []string
}

func (f *fakeCaptcha) Token(_ context.Context, action string) (string, error) {
	f.actions = append(f.actions, action)
	if f.err != nil {
		return "", f.err
	}
	return "captcha-token", nil
}

func TestCaptchaFailureKeepsIdle(t *testing.T) {
	fx := newSignInFixture(t, nil)

	captcha := &fakeCaptcha{err: errors.New("widget unavailable")}
	fx.engine.captcha = captcha
	flow := fx.engine.NewSignInFlow()

	err := flow.RequestCode(context.Background(), "+998901234567")
	if !errors.Is(err, ErrCaptchaFailed) {
		t.Fatalf("expected ErrCaptchaFailed, got %v", err)
	}
	if flow.State() != SignInIdle {
		t.Fatal("captcha failure must keep the flow idle")
	}
	if fx.requestHits.Load() != 0 {
		t.Fatal("no code request without a captcha token")
	}
}

func TestCaptchaActionPassedThrough(t *testing.T) {
	fx := newSignInFixture(t, nil)

	captcha := &fakeCaptcha{}
	fx.engine.captcha = captcha
	flow := fx.engine.NewSignInFlow()

	if err := flow.RequestCode(context.Background(), "+998901234567"); err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if len(captcha.actions) != 1 || captcha.actions[0] != "login_request" {
		t.Fatalf("captcha saw actions %v", captcha.actions)
	}
}

func TestSignInMetrics(t *testing.T) {
	fx := newSignInFixture(t, nil)
	ctx := context.Background()

	_ = fx.flow.RequestCode(ctx, "+998901234567")
	_ = fx.flow.RequestCode(ctx, "+998901234567") // blocked by cooldown
	_ = fx.flow.VerifyCode(ctx, "000000")
	_ = fx.flow.VerifyCode(ctx, "123456")

	snap := fx.engine.MetricsSnapshot()
	expect := map[MetricID]uint64{
		MetricCodeRequestSuccess:   1,
		MetricCodeResendBlocked:    1,
		MetricVerifyFailure:        1,
		MetricVerifySuccess:        1,
		MetricSessionAuthenticated: 1,
	}
	for id, want := range expect {
		if got := snap.Counters[id]; got != want {
			t.Fatalf("counter %d = %d, want %d", id, got, want)
		}
	}
}
