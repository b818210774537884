package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/registrar/internal/entities"
)

// sqliteParams are appended to every DSN. Foreign keys are off by default in
// SQLite and the enrolments cascade relies on them.
const sqliteParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

type Database struct {
	DB *gorm.DB
}

// Options tune how the connection is opened.
type Options struct {
	LogLevel logger.LogLevel
}

// ParseLogLevel maps a config string to a GORM log level, defaulting to Warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// DSN builds the SQLite connection string for a database path.
func DSN(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + sqliteParams
	}
	return dbPath + "?" + sqliteParams
}

func Open(dbPath string, opts Options) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(DSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

// Migrate registers the enrolments join model and creates or updates all
// tables. SetupJoinTable has to run before AutoMigrate.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&entities.Student{}, "Courses", &entities.Enrolment{}); err != nil {
		return fmt.Errorf("failed to set up enrolments join table: %w", err)
	}
	if err := db.SetupJoinTable(&entities.Course{}, "Students", &entities.Enrolment{}); err != nil {
		return fmt.Errorf("failed to set up enrolments join table: %w", err)
	}

	err := db.AutoMigrate(
		&entities.Student{},
		&entities.Course{},
		&entities.Enrolment{},
		&entities.User{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Stats holds row counts for the dashboard and health endpoints.
type Stats struct {
	Students   int64 `json:"students"`
	Courses    int64 `json:"courses"`
	Enrolments int64 `json:"enrolments"`
}

func (d *Database) GetStats() (Stats, error) {
	var stats Stats
	if err := d.DB.Model(&entities.Student{}).Count(&stats.Students).Error; err != nil {
		return stats, err
	}
	if err := d.DB.Model(&entities.Course{}).Count(&stats.Courses).Error; err != nil {
		return stats, err
	}
	err := d.DB.Model(&entities.Enrolment{}).Count(&stats.Enrolments).Error
	return stats, err
}
