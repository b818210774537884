package http

import (
	"github.com/mrlokans/registrar/internal/entities"
	"github.com/mrlokans/registrar/internal/services"
)

// Controllers depend on the narrow interfaces below rather than on the
// concrete services, so handlers can be tested against fakes.

// StudentService is implemented by services.StudentService.
type StudentService interface {
	Create(userID uint, in services.StudentInput) (*entities.Student, error)
	List() ([]entities.Student, error)
	Get(id uint) (*entities.Student, error)
	Update(userID, id uint, patch services.StudentPatch) (*entities.Student, error)
	Delete(userID, id uint) error
	DeleteAll(userID uint) (int64, error)
}

// CourseService is implemented by services.CourseService.
type CourseService interface {
	Create(userID uint, in services.CourseInput) (*entities.Course, error)
	List() ([]entities.Course, error)
	Get(id uint) (*entities.Course, error)
	Roster(id uint) ([]entities.Student, error)
	Update(userID, id uint, patch services.CoursePatch) (*entities.Course, error)
	Delete(userID, id uint) error
	DeleteAll(userID uint) (int64, error)
}

// EnrolmentService is implemented by services.EnrolmentService.
type EnrolmentService interface {
	Enrol(userID, studentID uint, in services.EnrolInput) (bool, error)
	Unenrol(userID, studentID, courseID uint) error
	List() ([]entities.EnrolmentDetail, error)
}
