package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/registrar/internal/database"
)

type HealthResponse struct {
	Status      string            `json:"status"`
	Time        string            `json:"time"`
	Version     string            `json:"version,omitempty"`
	Checks      map[string]string `json:"checks"`
	Stats       *database.Stats   `json:"stats,omitempty"`
	Maintenance *MaintenanceInfo  `json:"maintenance,omitempty"`
}

// MaintenanceInfo reports the cron maintenance schedule. It does not
// affect the overall status.
type MaintenanceInfo struct {
	Running bool       `json:"running"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// HealthChecker is implemented by *database.Database.
type HealthChecker interface {
	Ping() error
	GetStats() (database.Stats, error)
}

// MaintenanceStatus is implemented by *scheduler.MaintenanceScheduler.
type MaintenanceStatus interface {
	IsRunning() bool
	NextRun() *time.Time
}

type HealthController struct {
	db          HealthChecker
	maintenance MaintenanceStatus
	version     string
}

// NewHealthController creates the health endpoints. maintenance may be nil
// when no schedule is configured.
func NewHealthController(db HealthChecker, maintenance MaintenanceStatus, version string) *HealthController {
	return &HealthController{
		db:          db,
		maintenance: maintenance,
		version:     version,
	}
}

// Status handles GET /health. It answers 503 when the database is unreachable.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"
	var stats *database.Stats

	if h.db == nil {
		checks["database"] = "not configured"
		status = "unhealthy"
	} else if err := h.db.Ping(); err != nil {
		checks["database"] = "error: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "ok"
		if s, err := h.db.GetStats(); err == nil {
			stats = &s
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
		Stats:   stats,
	}
	if h.maintenance != nil {
		health.Maintenance = &MaintenanceInfo{
			Running: h.maintenance.IsRunning(),
			NextRun: h.maintenance.NextRun(),
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

// Ping handles GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
