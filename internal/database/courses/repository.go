// Package courses provides database operations for course records.
//
// Deleting a course removes its enrolments in the same transaction.
package courses

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/registrar/internal/entities"
)

// ErrNotFound is returned when no course has the requested ID.
var ErrNotFound = errors.New("course not found")

// Repository handles all course database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new courses repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func orderStudents(db *gorm.DB) *gorm.DB {
	return db.Order("students.id ASC")
}

// Create inserts a new course and returns it with its generated ID.
func (r *Repository) Create(title, description string) (*entities.Course, error) {
	course := &entities.Course{
		Title:       title,
		Description: description,
	}
	if err := r.db.Create(course).Error; err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

// GetByID retrieves a course with its enrolled students.
func (r *Repository) GetByID(id uint) (*entities.Course, error) {
	var course entities.Course
	err := r.db.Preload("Students", orderStudents).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, err)
	}
	return &course, nil
}

// Exists reports whether a course with the ID is stored.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&entities.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check course %d: %w", id, err)
	}
	return count > 0, nil
}

// List returns every course ordered by ID. Students are not loaded.
func (r *Repository) List() ([]entities.Course, error) {
	var courses []entities.Course
	if err := r.db.Order("id ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Count returns the number of stored courses.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Course{}).Count(&count).Error
	return count, err
}

// Roster returns the students enrolled in a course, ordered by ID.
func (r *Repository) Roster(id uint) ([]entities.Student, error) {
	course, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if course.Students == nil {
		return []entities.Student{}, nil
	}
	return course.Students, nil
}

// Update applies the non-empty fields in updates to the course.
// Keys are column names ("title", "description").
func (r *Repository) Update(id uint, updates map[string]any) (*entities.Course, error) {
	var course entities.Course
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&course, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&course).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&course, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update course %d: %w", id, err)
	}
	return &course, nil
}

// Delete removes a course and its enrolments.
func (r *Repository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&entities.Enrolment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Course{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	return err
}

// DeleteAll removes every course and all enrolments.
// Returns the number of courses deleted.
func (r *Repository) DeleteAll() (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&entities.Enrolment{}).Error; err != nil {
			return err
		}
		result := global.Delete(&entities.Course{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete all courses: %w", err)
	}
	return deleted, nil
}
