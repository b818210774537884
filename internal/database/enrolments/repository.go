// Package enrolments provides database operations for the join rows that
// link students to courses.
//
// The (student_id, course_id) primary key keeps each pair unique; Enrol is
// idempotent and reports whether a new row was written.
package enrolments

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/registrar/internal/entities"
)

// ErrNotEnrolled is returned when removing a pair that is not stored.
var ErrNotEnrolled = errors.New("student is not enrolled in this course")

// Repository handles all enrolment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new enrolments repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Enrol stores the pair. created is false when it was already present.
func (r *Repository) Enrol(studentID, courseID uint) (created bool, err error) {
	enrolment := &entities.Enrolment{
		StudentID: studentID,
		CourseID:  courseID,
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(enrolment)
	if result.Error != nil {
		return false, fmt.Errorf("enrol student %d in course %d: %w", studentID, courseID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Unenrol removes the pair, returning ErrNotEnrolled if it was absent.
func (r *Repository) Unenrol(studentID, courseID uint) error {
	result := r.db.Where("student_id = ? AND course_id = ?", studentID, courseID).Delete(&entities.Enrolment{})
	if result.Error != nil {
		return fmt.Errorf("unenrol student %d from course %d: %w", studentID, courseID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotEnrolled
	}
	return nil
}

// List returns every enrolment with the student name and course title,
// ordered by student then course.
func (r *Repository) List() ([]entities.EnrolmentDetail, error) {
	details := []entities.EnrolmentDetail{}
	err := r.db.Table("enrolments").
		Select("enrolments.student_id, students.name AS student_name, " +
			"enrolments.course_id, courses.title AS course_title, " +
			"enrolments.created_at AS enrolled_at").
		Joins("JOIN students ON students.id = enrolments.student_id").
		Joins("JOIN courses ON courses.id = enrolments.course_id").
		Order("enrolments.student_id ASC, enrolments.course_id ASC").
		Scan(&details).Error
	if err != nil {
		return nil, fmt.Errorf("list enrolments: %w", err)
	}
	return details, nil
}

// Count returns the number of stored enrolments.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Enrolment{}).Count(&count).Error
	return count, err
}

// DeleteOrphans removes enrolments whose student or course row is gone.
// Returns the number of rows removed.
func (r *Repository) DeleteOrphans() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM enrolments
		WHERE student_id NOT IN (SELECT id FROM students)
		OR course_id NOT IN (SELECT id FROM courses)
	`)
	if result.Error != nil {
		return 0, fmt.Errorf("delete orphan enrolments: %w", result.Error)
	}
	return result.RowsAffected, nil
}
