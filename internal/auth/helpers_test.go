package auth

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/registrar/internal/config"
	"github.com/mrlokans/registrar/internal/database/users"
	"github.com/mrlokans/registrar/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "correct-horse-battery"

func testConfig() config.Auth {
	return config.Auth{
		Mode:             config.AuthModeLocal,
		SessionLifetime:  time.Hour,
		TokenExpiry:      time.Hour,
		BcryptCost:       bcrypt.MinCost,
		SecureCookies:    false,
		MaxLoginAttempts: 3,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}
}

// setupTestDB creates a temp-file database with the users table.
func setupTestDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db, sqlDB
}

func setupService(t *testing.T, cfg config.Auth) (*Service, *sql.DB) {
	t.Helper()
	db, sqlDB := setupTestDB(t)
	return NewService(users.NewRepository(db), cfg), sqlDB
}

func mustCreateUser(t *testing.T, svc *Service, username string, role entities.UserRole) *entities.User {
	t.Helper()
	user, err := svc.CreateUser(username, username+"@example.com", testPassword, role)
	if err != nil {
		t.Fatalf("CreateUser(%s) error = %v", username, err)
	}
	return user
}
