package http

import (
	"github.com/mrlokans/registrar/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional parts are left nil.
type RouterConfig struct {
	// Core services
	Students   StudentService
	Courses    CourseService
	Enrolments EnrolmentService

	// Health checks
	Database HealthChecker
	Version  string

	// Audit log (optional)
	AuditReader   AuditReader
	ExportAuditor ExportAuditor

	// Task queue and maintenance schedule (optional)
	TaskQueue     TaskQueue
	RetentionDays int
	Maintenance   MaintenanceStatus

	// Authentication (optional, AUTH_MODE=local)
	AuthMiddleware *auth.Middleware
	AuthController *auth.AuthController
	SessionManager *auth.SessionManager
	CSRFKey        []byte
	SecureCookies  bool
}
