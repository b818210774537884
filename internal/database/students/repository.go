// Package students provides database operations for student records.
//
// Deleting a student removes its enrolments in the same transaction.
//
// # Usage
//
//	repo := students.NewRepository(db)
//	student, err := repo.Create("Ada Lovelace", "ada@example.com")
package students

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/registrar/internal/entities"
)

// ErrNotFound is returned when no student has the requested ID.
var ErrNotFound = errors.New("student not found")

// Repository handles all student database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new students repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func orderCourses(db *gorm.DB) *gorm.DB {
	return db.Order("courses.id ASC")
}

// Create inserts a new student and returns it with its generated ID.
func (r *Repository) Create(name, email string) (*entities.Student, error) {
	student := &entities.Student{
		Name:  name,
		Email: email,
	}
	if err := r.db.Create(student).Error; err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// GetByID retrieves a student with the courses it is enrolled in.
func (r *Repository) GetByID(id uint) (*entities.Student, error) {
	var student entities.Student
	err := r.db.Preload("Courses", orderCourses).First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}
	return &student, nil
}

// Exists reports whether a student with the ID is stored.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&entities.Student{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check student %d: %w", id, err)
	}
	return count > 0, nil
}

// List returns every student ordered by ID, each with its courses.
func (r *Repository) List() ([]entities.Student, error) {
	var students []entities.Student
	err := r.db.Preload("Courses", orderCourses).Order("id ASC").Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Count returns the number of stored students.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Student{}).Count(&count).Error
	return count, err
}

// Update applies the non-empty fields in updates to the student.
// Keys are column names ("name", "email").
func (r *Repository) Update(id uint, updates map[string]any) (*entities.Student, error) {
	var student entities.Student
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&student).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&student, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update student %d: %w", id, err)
	}
	return &student, nil
}

// Delete removes a student and its enrolments.
func (r *Repository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&entities.Enrolment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Student{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	return err
}

// DeleteAll removes every student and all enrolments.
// Returns the number of students deleted.
func (r *Repository) DeleteAll() (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&entities.Enrolment{}).Error; err != nil {
			return err
		}
		result := global.Delete(&entities.Student{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete all students: %w", err)
	}
	return deleted, nil
}
