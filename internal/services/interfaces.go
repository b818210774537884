package services

import "github.com/mrlokans/registrar/internal/entities"

// StudentStore persists students. Implemented by database/students.
type StudentStore interface {
	Create(name, email string) (*entities.Student, error)
	GetByID(id uint) (*entities.Student, error)
	Exists(id uint) (bool, error)
	List() ([]entities.Student, error)
	Update(id uint, updates map[string]any) (*entities.Student, error)
	Delete(id uint) error
	DeleteAll() (int64, error)
}

// CourseStore persists courses. Implemented by database/courses.
type CourseStore interface {
	Create(title, description string) (*entities.Course, error)
	GetByID(id uint) (*entities.Course, error)
	Exists(id uint) (bool, error)
	List() ([]entities.Course, error)
	Roster(id uint) ([]entities.Student, error)
	Update(id uint, updates map[string]any) (*entities.Course, error)
	Delete(id uint) error
	DeleteAll() (int64, error)
}

// EnrolmentStore persists the student/course join rows.
type EnrolmentStore interface {
	Enrol(studentID, courseID uint) (bool, error)
	Unenrol(studentID, courseID uint) error
	List() ([]entities.EnrolmentDetail, error)
	DeleteOrphans() (int64, error)
}

// Auditor receives a record of every successful mutation.
// Implemented by audit.Service.
type Auditor interface {
	LogCreate(userID uint, entityType string, entityID uint, name string)
	LogUpdate(userID uint, entityType string, entityID uint, name string, fields []string)
	LogDelete(userID uint, entityType string, entityID uint, name string)
	LogBulkDelete(userID uint, entityType string, count int64)
	LogEnrol(userID, studentID, courseID uint)
	LogUnenrol(userID, studentID, courseID uint)
}

type nopAuditor struct{}

func (nopAuditor) LogCreate(uint, string, uint, string)           {}
func (nopAuditor) LogUpdate(uint, string, uint, string, []string) {}
func (nopAuditor) LogDelete(uint, string, uint, string)           {}
func (nopAuditor) LogBulkDelete(uint, string, int64)              {}
func (nopAuditor) LogEnrol(uint, uint, uint)                      {}
func (nopAuditor) LogUnenrol(uint, uint, uint)                    {}

func auditorOrNop(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}
