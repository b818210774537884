package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/registrar/internal/auth"
	"github.com/mrlokans/registrar/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(gin.LoggerWithFormatter(requestLogFormat))
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	// Session must be loaded before the auth middleware reads it
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	requireAdmin := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
		// CSRF only guards session-authenticated requests, so it runs after auth
		if len(cfg.CSRFKey) > 0 {
			router.Use(auth.CSRFMiddleware(cfg.CSRFKey, cfg.SecureCookies))
		}
		router.Use(cfg.AuthMiddleware.RequireWrite())
		requireAdmin = cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin)
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Maintenance, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router.Group("/api/auth"))
	}

	students := NewStudentsController(cfg.Students)
	router.POST("/students", students.Create)
	router.GET("/students", students.List)
	router.DELETE("/students", students.DeleteAll)
	router.GET("/students/:id", students.Get)
	router.PUT("/students/:id", students.Update)
	router.DELETE("/students/:id", students.Delete)

	courses := NewCoursesController(cfg.Courses)
	router.POST("/courses", courses.Create)
	router.GET("/courses", courses.List)
	router.DELETE("/courses", courses.DeleteAll)
	router.GET("/courses/:id", courses.Get)
	router.GET("/courses/:id/students", courses.Students)
	router.PUT("/courses/:id", courses.Update)
	router.DELETE("/courses/:id", courses.Delete)

	enrolments := NewEnrolmentsController(cfg.Enrolments)
	router.POST("/students/:id/enroll", enrolments.Enrol)
	router.DELETE("/students/:id/enroll/:course_id", enrolments.Unenrol)
	router.GET("/enrolments", enrolments.List)

	exporter := NewExportController(cfg.Students, cfg.Courses, cfg.Enrolments, cfg.ExportAuditor)
	router.GET("/api/export/roster.xlsx", exporter.Roster)

	// Audit log endpoint
	if cfg.AuditReader != nil {
		auditController := NewAuditController(cfg.AuditReader)
		router.GET("/api/audit", requireAdmin, auditController.GetAuditEvents)
	}

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.RetentionDays)
		router.GET("/api/tasks/types", tasksController.ListTaskTypes)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/api/tasks/:type/run", requireAdmin, tasksController.RunTask)
	}

	return router
}
