// Package auth provides authentication and authorization for the registrar API.
//
// It supports two authentication modes:
//   - "none": no authentication, every request runs as DefaultUserID
//   - "local": bcrypt password users, cookie sessions and bearer API tokens
//
// # Configuration
//
//	AUTH_MODE=none   # Default, no auth required
//	AUTH_MODE=local  # Requires a user, see `registrar create-user`
//
// For local mode, additional configuration:
//
//	AUTH_SESSION_SECRET=<secret>   # Random per process if empty
//	AUTH_SESSION_LIFETIME=24h      # Session duration
//	AUTH_TOKEN_EXPIRY=720h         # API token expiry
//	AUTH_BCRYPT_COST=12            # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true       # HTTPS-only cookies
//
// # Middleware order
//
//	router.Use(sessionManager.SessionLoadSave())
//	router.Use(authMiddleware.Handler())
//	router.Use(auth.CSRFMiddleware(key, secure))
//	router.Use(authMiddleware.RequireWrite())
//
// Viewers may only issue safe requests. Cookie sessions need the
// X-CSRF-Token header echoed back on writes; bearer tokens do not.
package auth
