package services

import (
	"github.com/mrlokans/registrar/internal/entities"
)

const studentResource = "Student"

// StudentInput is the body of a create request.
type StudentInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// StudentPatch is the body of an update request. Empty fields are left as is.
type StudentPatch struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p StudentPatch) columns() (map[string]any, []string) {
	updates := map[string]any{}
	var fields []string
	if p.Name != "" {
		updates["name"] = p.Name
		fields = append(fields, "name")
	}
	if p.Email != "" {
		updates["email"] = p.Email
		fields = append(fields, "email")
	}
	return updates, fields
}

type StudentService struct {
	store   StudentStore
	auditor Auditor
}

// NewStudentService wires a student store with an optional auditor.
func NewStudentService(store StudentStore, auditor Auditor) *StudentService {
	return &StudentService{store: store, auditor: auditorOrNop(auditor)}
}

func (s *StudentService) Create(userID uint, in StudentInput) (*entities.Student, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	student, err := s.store.Create(in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	s.auditor.LogCreate(userID, "student", student.ID, student.Name)
	return student, nil
}

// List returns every student with their enrolled courses.
func (s *StudentService) List() ([]entities.Student, error) {
	return s.store.List()
}

func (s *StudentService) Get(id uint) (*entities.Student, error) {
	student, err := s.store.GetByID(id)
	if err != nil {
		return nil, translate(err, studentResource, id)
	}
	return student, nil
}

func (s *StudentService) Update(userID, id uint, patch StudentPatch) (*entities.Student, error) {
	updates, fields := patch.columns()
	student, err := s.store.Update(id, updates)
	if err != nil {
		return nil, translate(err, studentResource, id)
	}
	if len(fields) > 0 {
		s.auditor.LogUpdate(userID, "student", id, student.Name, fields)
	}
	return student, nil
}

// Delete removes the student together with its enrolments.
func (s *StudentService) Delete(userID, id uint) error {
	student, err := s.store.GetByID(id)
	if err != nil {
		return translate(err, studentResource, id)
	}
	if err := s.store.Delete(id); err != nil {
		return translate(err, studentResource, id)
	}
	s.auditor.LogDelete(userID, "student", id, student.Name)
	return nil
}

// DeleteAll removes every student and returns how many were deleted.
func (s *StudentService) DeleteAll(userID uint) (int64, error) {
	deleted, err := s.store.DeleteAll()
	if err != nil {
		return 0, err
	}
	s.auditor.LogBulkDelete(userID, "student", deleted)
	return deleted, nil
}
