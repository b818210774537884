package services

import (
	"github.com/mrlokans/registrar/internal/entities"
)

// EnrolInput is the body of an enrol request.
type EnrolInput struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// EnrolmentService manages the student/course relation. Both sides are
// checked for existence before the join table is touched.
type EnrolmentService struct {
	students   StudentStore
	courses    CourseStore
	enrolments EnrolmentStore
	auditor    Auditor
}

func NewEnrolmentService(students StudentStore, courses CourseStore, enrolments EnrolmentStore, auditor Auditor) *EnrolmentService {
	return &EnrolmentService{
		students:   students,
		courses:    courses,
		enrolments: enrolments,
		auditor:    auditorOrNop(auditor),
	}
}

func (s *EnrolmentService) requireStudent(id uint) error {
	ok, err := s.students.Exists(id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(studentResource, id)
	}
	return nil
}

func (s *EnrolmentService) requireCourse(id uint) error {
	ok, err := s.courses.Exists(id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(courseResource, id)
	}
	return nil
}

func (s *EnrolmentService) checkPair(studentID, courseID uint) error {
	if err := s.requireStudent(studentID); err != nil {
		return err
	}
	return s.requireCourse(courseID)
}

// Enrol adds the student to the course. Enrolling an existing pair is a
// no-op that reports created=false. An unknown student is reported before
// a missing course_id.
func (s *EnrolmentService) Enrol(userID, studentID uint, in EnrolInput) (created bool, err error) {
	if err := s.requireStudent(studentID); err != nil {
		return false, err
	}
	if err := Validate(in); err != nil {
		return false, err
	}
	if err := s.requireCourse(in.CourseID); err != nil {
		return false, err
	}

	created, err = s.enrolments.Enrol(studentID, in.CourseID)
	if err != nil {
		return false, err
	}
	if created {
		s.auditor.LogEnrol(userID, studentID, in.CourseID)
	}
	return created, nil
}

// Unenrol removes the student from the course. Returns ErrNotEnrolled when
// the pair does not exist.
func (s *EnrolmentService) Unenrol(userID, studentID, courseID uint) error {
	if err := s.checkPair(studentID, courseID); err != nil {
		return err
	}
	if err := s.enrolments.Unenrol(studentID, courseID); err != nil {
		return err
	}
	s.auditor.LogUnenrol(userID, studentID, courseID)
	return nil
}

func (s *EnrolmentService) List() ([]entities.EnrolmentDetail, error) {
	return s.enrolments.List()
}

// DeleteOrphans removes join rows that point at missing students or courses.
func (s *EnrolmentService) DeleteOrphans() (int64, error) {
	return s.enrolments.DeleteOrphans()
}
