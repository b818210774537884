package interfaces

// Compile-time checks that the concrete types wired together in
// internal/entrypoint satisfy the interfaces their consumers declare.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/registrar/internal/audit"
	"github.com/mrlokans/registrar/internal/auth"
	"github.com/mrlokans/registrar/internal/database"
	"github.com/mrlokans/registrar/internal/database/courses"
	"github.com/mrlokans/registrar/internal/database/enrolments"
	"github.com/mrlokans/registrar/internal/database/students"
	"github.com/mrlokans/registrar/internal/database/users"
	"github.com/mrlokans/registrar/internal/export"
	"github.com/mrlokans/registrar/internal/http"
	"github.com/mrlokans/registrar/internal/scheduler"
	"github.com/mrlokans/registrar/internal/services"
	"github.com/mrlokans/registrar/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.StudentStore = (*students.Repository)(nil)
var _ services.CourseStore = (*courses.Repository)(nil)
var _ services.EnrolmentStore = (*enrolments.Repository)(nil)
var _ auth.UserRepository = (*users.Repository)(nil)

var _ export.StudentLister = (*students.Repository)(nil)
var _ export.CourseLister = (*courses.Repository)(nil)
var _ export.EnrolmentLister = (*enrolments.Repository)(nil)

var _ http.HealthChecker = (*database.Database)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.StudentService = (*services.StudentService)(nil)
var _ http.CourseService = (*services.CourseService)(nil)
var _ http.EnrolmentService = (*services.EnrolmentService)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ services.Auditor = (*audit.Service)(nil)
var _ auth.Auditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ http.ExportAuditor = (*audit.Service)(nil)
var _ tasks.Reporter = (*audit.Service)(nil)

// =============================================================================
// Background Maintenance
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ http.MaintenanceStatus = (*scheduler.MaintenanceScheduler)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.OrphanEnrolmentsCleaner = (*services.EnrolmentService)(nil)
var _ tasks.OrphanEnrolmentsCleaner = (*enrolments.Repository)(nil)
