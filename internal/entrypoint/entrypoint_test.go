package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/registrar/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		HTTP:     config.HTTP{GinMode: gin.TestMode},
		Database: config.Database{Path: filepath.Join(t.TempDir(), "registrar.db"), LogLevel: "silent"},
		Audit:    config.Audit{Enabled: true, RetentionDays: 30},
		Auth:     config.Auth{Mode: config.AuthModeNone},
	}
}

func build(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	router, shutdown, err := Build(cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdown(ctx)
	})
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBuild_Minimal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.Enabled = false
	router := build(t, cfg)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/students", `{"name":"Ada","email":"ada@example.com"}`).Code)

	// Optional routes are not mounted.
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/audit", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/tasks/types", "").Code)
}

func TestBuild_WithTasksAndAudit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks = config.Tasks{Enabled: true, Workers: 1, ReleaseAfter: time.Minute, CleanupInterval: time.Hour}
	cfg.Maintenance = config.Maintenance{Enabled: true, Schedule: "0 3 * * *"}
	router := build(t, cfg)

	require.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/students", `{"name":"Ada","email":"ada@example.com"}`).Code)

	w := serve(router, http.MethodPost, "/api/tasks/cleanup_orphan_enrolments/run", "")
	assert.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	assert.Eventually(t, func() bool {
		return strings.Contains(serve(router, http.MethodGet, "/api/audit", "").Body.String(), "student_create")
	}, 2*time.Second, 20*time.Millisecond)
}

func TestBuild_LocalAuth(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth = config.Auth{Mode: config.AuthModeLocal, BcryptCost: 4, SessionSecret: "secret"}
	router := build(t, cfg)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/students", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)

	w := serve(router, http.MethodPost, "/api/auth/setup",
		`{"username":"admin","email":"admin@example.com","password":"correct-horse-battery"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBuild_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Mode = "ldap"
	_, _, err := Build(cfg, "test")
	assert.ErrorContains(t, err, "unknown AUTH_MODE")

	cfg = testConfig(t)
	cfg.Tasks = config.Tasks{Enabled: true, Workers: 1}
	cfg.Maintenance = config.Maintenance{Enabled: true, Schedule: "every tuesday"}
	_, _, err = Build(cfg, "test")
	assert.ErrorContains(t, err, "invalid cron schedule")
}
