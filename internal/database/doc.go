// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, row counts
//	├── students/        # Student CRUD
//	├── courses/         # Course CRUD and rosters
//	├── enrolments/      # Student <-> course join rows
//	├── users/           # Local auth users
//	└── audit/           # Audit event log
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type built on the shared *gorm.DB:
//
//	db, err := database.Open("./registrar.db", database.Options{LogLevel: logger.Warn})
//
//	studentsRepo := students.NewRepository(db.DB)
//	coursesRepo := courses.NewRepository(db.DB)
//	enrolmentsRepo := enrolments.NewRepository(db.DB)
//
//	student, err := studentsRepo.GetByID(1)
//
// Missing rows are reported with the sub-package's ErrNotFound so callers
// never have to import gorm to check for them.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in Migrate
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
