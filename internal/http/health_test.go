package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/registrar/internal/database"
)

type fakeHealthChecker struct {
	pingErr error
	stats   database.Stats
}

func (f *fakeHealthChecker) Ping() error { return f.pingErr }

func (f *fakeHealthChecker) GetStats() (database.Stats, error) { return f.stats, nil }

type fakeMaintenance struct {
	next *time.Time
}

func (f *fakeMaintenance) IsRunning() bool { return f.next != nil }

func (f *fakeMaintenance) NextRun() *time.Time { return f.next }

func serveHealth(t *testing.T, checker HealthChecker) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	return serveHealthWith(t, checker, nil)
}

func serveHealthWith(t *testing.T, checker HealthChecker, maintenance MaintenanceStatus) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	controller := NewHealthController(checker, maintenance, "1.0.0")

	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("healthy with stats", func(t *testing.T) {
		w, response := serveHealth(t, &fakeHealthChecker{stats: database.Stats{Students: 3, Courses: 2, Enrolments: 4}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		require.NotNil(t, response.Stats)
		assert.Equal(t, int64(3), response.Stats.Students)
		assert.NotEmpty(t, response.Time)
		assert.Nil(t, response.Maintenance)
	})

	t.Run("reports the maintenance schedule", func(t *testing.T) {
		next := time.Date(2024, 9, 2, 3, 0, 0, 0, time.UTC)
		w, response := serveHealthWith(t, &fakeHealthChecker{}, &fakeMaintenance{next: &next})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, response.Maintenance)
		assert.True(t, response.Maintenance.Running)
		require.NotNil(t, response.Maintenance.NextRun)
		assert.True(t, next.Equal(*response.Maintenance.NextRun))
	})

	t.Run("stopped schedule stays healthy", func(t *testing.T) {
		w, response := serveHealthWith(t, &fakeHealthChecker{}, &fakeMaintenance{})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, response.Maintenance)
		assert.False(t, response.Maintenance.Running)
		assert.Nil(t, response.Maintenance.NextRun)
	})

	t.Run("unhealthy when ping fails", func(t *testing.T) {
		w, response := serveHealth(t, &fakeHealthChecker{pingErr: errors.New("database is closed")})

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "database is closed")
		assert.Nil(t, response.Stats)
	})

	t.Run("unhealthy when not configured", func(t *testing.T) {
		w, response := serveHealth(t, nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "not configured", response.Checks["database"])
	})
}

func TestHealth_ClosedDatabase(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, api.db.Close())
	w = api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPing(t *testing.T) {
	api := setupTestAPI(t)

	w := api.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
