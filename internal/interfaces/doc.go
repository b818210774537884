// Package interfaces documents the core abstractions used throughout the application.
//
// Consumers declare the narrow interface they need next to their own code and
// the concrete types are assembled in internal/entrypoint. checks.go pins each
// pairing at compile time.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - StudentStore, CourseStore, EnrolmentStore: record persistence (internal/services/interfaces.go)
//   - UserRepository: local auth users (internal/auth/service.go)
//   - StudentLister, CourseLister, EnrolmentLister: roster snapshot for XLSX export (internal/export/roster.go)
//   - HealthChecker: database ping and row counts (internal/http/health.go)
//
// ## Service Interfaces
//
//   - StudentService, CourseService, EnrolmentService: what the HTTP controllers call (internal/http/stores.go)
//
// ## Audit Interfaces
//
//   - services.Auditor: record mutations (internal/services/interfaces.go)
//   - auth.Auditor: login, logout and token events (internal/auth/handlers.go)
//   - AuditReader, ExportAuditor: audit endpoint and export logging (internal/http)
//   - tasks.Reporter: maintenance task outcomes (internal/tasks/types.go)
//
// All of the audit interfaces are implemented by *audit.Service.
//
// ## Background Maintenance Interfaces
//
//   - TaskQueue, Enqueuer: backlite task client (internal/http/tasks.go, internal/scheduler)
//   - AuditEventCleaner, OrphanEnrolmentsCleaner: task handlers' dependencies (internal/tasks)
//
// # Adding a New Record Type
//
// To add a new record type (e.g., instructors):
//
//  1. Add the entity to internal/entities/records.go and register it in database.Migrate
//
//  2. Create sub-package internal/database/instructors/ with a Repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare InstructorStore in internal/services and build InstructorService on it
//
//  4. Declare InstructorService in internal/http/stores.go, add a controller and
//     register its routes in router.go
//
//  5. Add compile-time checks here:
//
//     var _ services.InstructorStore = (*instructors.Repository)(nil)
//     var _ http.InstructorService = (*services.InstructorService)(nil)
//
// # Adding a New Maintenance Task
//
//  1. Add a task type constant and payload in internal/tasks with a Config() method
//  2. Declare the dependency interface the handler needs
//  3. Register the queue in entrypoint.Build and add the type to tasks.Types()
//
// # Compile-Time Interface Checks
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
