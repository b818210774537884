package auth

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/mrlokans/registrar/internal/config"
	"github.com/mrlokans/registrar/internal/entities"
)

// Auditor records authentication events. Implemented by audit.Service.
type Auditor interface {
	LogAuth(userID uint, action string, ipAddr string, success bool)
}

type nopAuditor struct{}

func (nopAuditor) LogAuth(uint, string, string, bool) {}

// AuthController serves the JSON endpoints under /api/auth.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	auditor        Auditor

	// setupMu serializes first-user creation.
	setupMu sync.Mutex
}

// NewAuthController creates a new authentication controller. auditor may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, cfg config.Auth, auditor Auditor) *AuthController {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    NewRateLimiter(cfg),
		auditor:        auditor,
	}
}

// RegisterRoutes mounts the auth endpoints on the /api/auth group.
func (ac *AuthController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/login", ac.rateLimiter.Guard(scopeLogin), ac.Login)
	group.POST("/setup", ac.rateLimiter.Guard(scopeSetup), ac.Setup)
	group.POST("/logout", ac.Logout)
	group.GET("/me", ac.Me)
	group.PUT("/password", ac.ChangePassword)
	group.POST("/token", ac.GenerateToken)
	group.DELETE("/token", ac.RevokeToken)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	ac.rateLimiter.Stop()
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type setupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type passwordChange struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Login handles POST /api/auth/login. Runs behind the login rate limit guard.
func (ac *AuthController) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	clientIP := c.ClientIP()

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		ac.rateLimiter.Failed(c)
		ac.auditor.LogAuth(0, "login_failed", clientIP, false)

		if errors.Is(err, ErrAccountLocked) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "account is locked, try again later"})
			return
		}
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrInvalidPassword) {
			log.Printf("Login failed for %q: %v", req.Username, err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	ac.rateLimiter.Succeeded(c)

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	ac.auditor.LogAuth(user.ID, "login", clientIP, true)

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// Setup handles POST /api/auth/setup. It creates the first admin account
// and is rejected once any user exists. Rejected attempts count against the
// setup rate limit.
func (ac *AuthController) Setup(c *gin.Context) {
	ac.setupMu.Lock()
	defer ac.setupMu.Unlock()

	hasUsers, err := ac.service.HasUsers()
	if err != nil {
		log.Printf("Failed to count users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if hasUsers {
		ac.rateLimiter.Failed(c)
		c.JSON(http.StatusConflict, gin.H{"error": "setup already completed"})
		return
	}

	var req setupRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		ac.rateLimiter.Failed(c)
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	user, err := ac.service.CreateUser(req.Username, req.Email, req.Password, entities.UserRoleAdmin)
	if err != nil {
		if status, msg := userErrorStatus(err); status != http.StatusInternalServerError {
			ac.rateLimiter.Failed(c)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		log.Printf("Failed to create admin user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	ac.rateLimiter.Succeeded(c)

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for user %d: %v", user.ID, err)
	}
	ac.auditor.LogAuth(user.ID, "setup", c.ClientIP(), true)

	c.JSON(http.StatusCreated, gin.H{"message": "admin user created", "user": user})
}

// userErrorStatus maps user validation errors onto HTTP statuses.
func userErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrUsernameRequired), errors.Is(err, ErrUsernameInvalid),
		errors.Is(err, ErrEmailRequired), errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordTooLong), errors.Is(err, ErrInvalidRole):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// Logout handles POST /api/auth/logout.
func (ac *AuthController) Logout(c *gin.Context) {
	userID := GetUserID(c)
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
	ac.auditor.LogAuth(userID, "logout", c.ClientIP(), true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.service.GetUserByID(GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	resp := gin.H{
		"user":      user,
		"auth_type": GetAuthType(c),
	}
	if GetAuthType(c) == AuthTypeSession {
		resp["login_at"] = ac.sessionManager.GetLoginAt(c.Request)
	}
	c.JSON(http.StatusOK, resp)
}

// ChangePassword handles PUT /api/auth/password.
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var req passwordChange
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_password and new_password are required"})
		return
	}

	userID := GetUserID(c)
	err := ac.service.ChangePassword(userID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	case errors.Is(err, ErrPasswordTooShort), errors.Is(err, ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		log.Printf("Failed to change password for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change password"})
		return
	}

	ac.auditor.LogAuth(userID, "password_change", c.ClientIP(), true)
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// GenerateToken handles POST /api/auth/token. The plaintext token is only
// returned once.
func (ac *AuthController) GenerateToken(c *gin.Context) {
	userID := GetUserID(c)
	token, err := ac.service.GenerateToken(userID)
	if err != nil {
		log.Printf("Failed to generate token for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	ac.auditor.LogAuth(userID, "token_generate", c.ClientIP(), true)

	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"message": "Store this token securely - it will not be shown again",
	})
}

// RevokeToken handles DELETE /api/auth/token.
func (ac *AuthController) RevokeToken(c *gin.Context) {
	userID := GetUserID(c)
	if err := ac.service.RevokeToken(userID); err != nil {
		log.Printf("Failed to revoke token for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	ac.auditor.LogAuth(userID, "token_revoke", c.ClientIP(), true)
	c.JSON(http.StatusOK, gin.H{"message": "token revoked"})
}
