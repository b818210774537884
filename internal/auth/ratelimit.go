package auth

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/mrlokans/registrar/internal/config"
)

// attemptScope names the credential endpoint a failure was counted against.
type attemptScope string

const (
	scopeLogin attemptScope = "login"
	// Setup failures are counted per client IP only.
	scopeSetup attemptScope = "setup"
)

const contextKeyAttempt = "auth_attempt"

const (
	defaultMaxAttempts   = 5
	defaultAttemptWindow = 15 * time.Minute
	defaultLockout       = 30 * time.Minute
	sweepInterval        = 5 * time.Minute
)

type attemptKey struct {
	scope    attemptScope
	ip       string
	username string
}

type attemptWindow struct {
	failures    int
	start       time.Time
	lockedUntil time.Time
}

// RateLimiter throttles repeated failed submissions to /api/auth/login and
// /api/auth/setup. It complements the per-account lockout in Service, which
// only applies once a username matches a stored user.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[attemptKey]*attemptWindow

	limit   int
	window  time.Duration
	lockout time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter builds a limiter from the AUTH_MAX_LOGIN_ATTEMPTS,
// AUTH_RATE_LIMIT_WINDOW and AUTH_LOCKOUT_DURATION settings and starts
// its sweeper. Call Stop to release it.
func NewRateLimiter(cfg config.Auth) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[attemptKey]*attemptWindow),
		limit:   cfg.MaxLoginAttempts,
		window:  cfg.RateLimitWindow,
		lockout: cfg.LockoutDuration,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if rl.limit <= 0 {
		rl.limit = defaultMaxAttempts
	}
	if rl.window <= 0 {
		rl.window = defaultAttemptWindow
	}
	if rl.lockout <= 0 {
		rl.lockout = defaultLockout
	}

	go rl.sweepLoop()
	return rl
}

// Stop ends the sweeper. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Guard rejects a credential submission with 429 while its key is locked.
// The JSON body is buffered, so handlers behind it must bind with
// c.ShouldBindBodyWith(..., binding.JSON).
func (rl *RateLimiter) Guard(scope attemptScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Username string `json:"username"`
		}
		// Malformed bodies are the handler's to reject.
		_ = c.ShouldBindBodyWith(&body, binding.JSON)

		key := attemptKey{scope: scope, ip: c.ClientIP()}
		if scope == scopeLogin {
			key.username = strings.ToLower(strings.TrimSpace(body.Username))
		}

		if wait := rl.lockedFor(key); wait > 0 {
			tooManyAttempts(c, wait)
			c.Abort()
			return
		}

		c.Set(contextKeyAttempt, key)
		c.Next()
	}
}

// Failed counts a rejected submission for the request's key and returns
// the lockout now in force, or zero.
func (rl *RateLimiter) Failed(c *gin.Context) time.Duration {
	key, ok := c.Get(contextKeyAttempt)
	if !ok {
		return 0
	}
	return rl.fail(key.(attemptKey))
}

// Succeeded forgets earlier failures for the request's key.
func (rl *RateLimiter) Succeeded(c *gin.Context) {
	if key, ok := c.Get(contextKeyAttempt); ok {
		rl.mu.Lock()
		delete(rl.windows, key.(attemptKey))
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) lockedFor(key attemptKey) time.Duration {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if w, ok := rl.windows[key]; ok && now.Before(w.lockedUntil) {
		return w.lockedUntil.Sub(now)
	}
	return 0
}

func (rl *RateLimiter) fail(key attemptKey) time.Duration {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || (now.Sub(w.start) > rl.window && !now.Before(w.lockedUntil)) {
		w = &attemptWindow{start: now}
		rl.windows[key] = w
	}

	w.failures++
	if w.failures >= rl.limit {
		w.lockedUntil = now.Add(rl.lockout)
		return rl.lockout
	}
	return 0
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// sweep drops windows that can no longer lock anyone out.
func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.windows {
		if now.Sub(w.start) > rl.window && !now.Before(w.lockedUntil) {
			delete(rl.windows, key)
		}
	}
}

func tooManyAttempts(c *gin.Context, wait time.Duration) {
	c.Header("Retry-After", retryAfterSeconds(wait))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":       "too many attempts, try again later",
		"retry_after": wait.Round(time.Second).String(),
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
