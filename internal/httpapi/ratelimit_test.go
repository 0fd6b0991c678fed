package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"hotel-booking-account/backend/internal/audit"
)

func TestRateLimiter_LoginReturns429(t *testing.T) {
	ts := newTestServer(t, RateLimiterConfig{Rate: rate.Limit(1.0 / 60.0), Burst: 2, CleanupInterval: time.Minute})
	body := map[string]string{"email": "admin@admin.com", "password": "wrong"}

	for i := 0; i < 2; i++ {
		if code, _ := ts.do(t, http.MethodPost, "/auth/login", body, ""); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status %d, want 401", i+1, code)
		}
	}
	code, env := ts.do(t, http.MethodPost, "/auth/login", body, "")
	if code != http.StatusTooManyRequests || env.Code != "RATE_LIMITED" {
		t.Fatalf("over budget: status %d, envelope %+v", code, env)
	}
	if ts.metrics.rateLimited["/auth/login"] != 1 {
		t.Errorf("rate limited count = %v", ts.metrics.rateLimited)
	}

	// Buckets are per route.
	if code, _ := ts.do(t, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": "x"}, ""); code != http.StatusUnauthorized {
		t.Fatalf("refresh: status %d, want 401", code)
	}
}

func TestRateLimiter_PerClientIP(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(1.0 / 60.0), Burst: 1, CleanupInterval: time.Minute}, nil)
	t.Cleanup(rl.Stop)
	h := ClientIP(nil)(rl.Middleware("/auth/login")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	if w := send("10.0.0.1"); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w := send("10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d, want 429", w.Code)
	}
	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	if err != nil || retry != 60 {
		t.Errorf("Retry-After = %q, want 60", w.Header().Get("Retry-After"))
	}
	if w := send("10.0.0.2"); w.Code != http.StatusOK {
		t.Fatalf("other client: %d", w.Code)
	}
	if rl.Len() != 2 {
		t.Errorf("Len = %d, want 2", rl.Len())
	}
}

func TestRateLimiter_RotatingForwardedForFromOnePeer(t *testing.T) {
	ts := newTestServer(t, NewRateLimiterConfig(1, 1))
	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@admin.com","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.RemoteAddr = "198.51.100.20:40000"
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 19 {
		t.Fatalf("rate limited %d of 20 attempts, want 19", limited)
	}
}

func TestRateLimiter_BehindTrustedProxy(t *testing.T) {
	trusted, err := audit.ParseTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies: %v", err)
	}
	rl := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(1.0 / 60.0), Burst: 1, CleanupInterval: time.Minute}, nil)
	t.Cleanup(rl.Stop)
	h := ClientIP(trusted)(rl.Middleware("/auth/login")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.5:443"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("203.0.113.7"); code != http.StatusOK {
		t.Fatalf("first client: %d", code)
	}
	if code := send("203.0.113.8"); code != http.StatusOK {
		t.Fatalf("second client behind the proxy: %d", code)
	}
	// A client-chosen leftmost hop does not change the resolved client.
	if code := send("6.6.6.6, 203.0.113.7"); code != http.StatusTooManyRequests {
		t.Fatalf("spoofed hop: %d, want 429", code)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, CleanupInterval: time.Hour}, nil)
	t.Cleanup(rl.Stop)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.limiterFor("a")
	now = now.Add(90 * time.Minute)
	rl.limiterFor("b")
	now = now.Add(90 * time.Minute)
	rl.cleanup()

	if rl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", rl.Len())
	}
	rl.Stop()
	rl.Stop()
}

func TestNewRateLimiterConfig(t *testing.T) {
	cfg := NewRateLimiterConfig(120, 5)
	if cfg.Rate != rate.Limit(2) || cfg.Burst != 5 {
		t.Errorf("config = %+v", cfg)
	}
	cfg = NewRateLimiterConfig(0, 0)
	if cfg.Burst != 1 || cfg.Rate <= 0 {
		t.Errorf("defaults = %+v", cfg)
	}
}
