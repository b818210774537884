package auth

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// sessionWriter commits the session the first time anything reaches the
// client. Gin sends headers before middleware regains control, so the
// cookie cannot be added after c.Next.
type sessionWriter struct {
	gin.ResponseWriter
	commit func()
	once   sync.Once
}

func (w *sessionWriter) flushSession() {
	w.once.Do(w.commit)
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flushSession()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.flushSession()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flushSession()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.flushSession()
	return w.ResponseWriter.WriteString(s)
}

// commitSession persists a modified session and sets or clears the
// registrar_session cookie. Unmodified sessions leave the response alone.
func (sm *SessionManager) commitSession(ctx context.Context, w http.ResponseWriter) {
	switch sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := sm.Commit(ctx)
		if err != nil {
			log.Printf("Failed to commit session: %v", err)
			return
		}
		sm.WriteSessionCookie(ctx, w, token, expiry)
	case scs.Destroyed:
		sm.WriteSessionCookie(ctx, w, "", time.Time{})
	default:
		return
	}
	w.Header().Add("Vary", "Cookie")
}

// SessionLoadSave loads the session named by the registrar_session cookie
// into the request context and commits it with the response. It must run
// before the auth middleware.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			log.Printf("Failed to load session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Request = c.Request.WithContext(ctx)

		w := &sessionWriter{ResponseWriter: c.Writer}
		w.commit = func() { sm.commitSession(ctx, w.ResponseWriter) }
		c.Writer = w

		c.Next()

		// Handlers that never wrote a body still need the cookie.
		w.flushSession()
	}
}
