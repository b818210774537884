package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(), StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
		"Cache-Control":          "no-store",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy should be set")
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS should be sent behind a TLS proxy")
	}
}

func TestRateLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLoginAttempts = 2
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	now := time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ada := attemptKey{scope: scopeLogin, ip: "10.0.0.1", username: "ada"}
	if wait := rl.lockedFor(ada); wait != 0 {
		t.Fatalf("lockedFor() = %v before any failure", wait)
	}

	if wait := rl.fail(ada); wait != 0 {
		t.Fatalf("first failure locked for %v", wait)
	}
	if wait := rl.fail(ada); wait != cfg.LockoutDuration {
		t.Fatalf("second failure lockout = %v, want %v", wait, cfg.LockoutDuration)
	}
	if wait := rl.lockedFor(ada); wait <= 0 {
		t.Error("key should be locked")
	}

	other := ada
	other.ip = "10.0.0.2"
	if wait := rl.lockedFor(other); wait != 0 {
		t.Error("other IPs should not be affected")
	}
	setup := attemptKey{scope: scopeSetup, ip: "10.0.0.1"}
	if wait := rl.lockedFor(setup); wait != 0 {
		t.Error("scopes should be counted separately")
	}

	now = now.Add(cfg.LockoutDuration + time.Second)
	if wait := rl.lockedFor(ada); wait != 0 {
		t.Errorf("lockout should expire, still locked for %v", wait)
	}

	rl.sweep()
	if len(rl.windows) != 0 {
		t.Errorf("sweep left %d windows", len(rl.windows))
	}

	rl.Stop() // idempotent
}

func TestRateLimiterWindowReset(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLoginAttempts = 2
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	now := time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	key := attemptKey{scope: scopeLogin, ip: "10.0.0.1", username: "ada"}
	rl.fail(key)
	now = now.Add(cfg.RateLimitWindow + time.Second)
	if wait := rl.fail(key); wait != 0 {
		t.Error("failures outside the window should not accumulate")
	}
}

func TestRateLimiterGuard(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLoginAttempts = 2
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	router := gin.New()
	router.POST("/login", rl.Guard(scopeLogin), func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		rl.Failed(c)
		c.Status(http.StatusUnauthorized)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// The handler still sees the body the guard read.
	for i := 0; i < 2; i++ {
		if w := post(`{"username":"Ada","password":"nope"}`); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want %d", i+1, w.Code, http.StatusUnauthorized)
		}
	}

	w := post(`{"username":"ada","password":"nope"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("locked attempt = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}

	if w := post(`{"username":"grace","password":"nope"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("other username = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if w := post(`not json`); w.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := map[time.Duration]string{
		0:                       "1",
		400 * time.Millisecond:  "1",
		90 * time.Second:        "90",
		1500 * time.Millisecond: "2",
	}
	for d, want := range tests {
		if got := retryAfterSeconds(d); got != want {
			t.Errorf("retryAfterSeconds(%v) = %q, want %q", d, got, want)
		}
	}
}
