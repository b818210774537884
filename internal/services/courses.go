package services

import (
	"github.com/mrlokans/registrar/internal/entities"
)

const courseResource = "Course"

type CourseInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// CoursePatch is the body of an update request. Empty fields are left as is.
type CoursePatch struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (p CoursePatch) columns() (map[string]any, []string) {
	updates := map[string]any{}
	var fields []string
	if p.Title != "" {
		updates["title"] = p.Title
		fields = append(fields, "title")
	}
	if p.Description != "" {
		updates["description"] = p.Description
		fields = append(fields, "description")
	}
	return updates, fields
}

type CourseService struct {
	store   CourseStore
	auditor Auditor
}

func NewCourseService(store CourseStore, auditor Auditor) *CourseService {
	return &CourseService{store: store, auditor: auditorOrNop(auditor)}
}

func (s *CourseService) Create(userID uint, in CourseInput) (*entities.Course, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	course, err := s.store.Create(in.Title, in.Description)
	if err != nil {
		return nil, err
	}
	s.auditor.LogCreate(userID, "course", course.ID, course.Title)
	return course, nil
}

func (s *CourseService) List() ([]entities.Course, error) {
	return s.store.List()
}

// Get returns the course with its enrolled students loaded.
func (s *CourseService) Get(id uint) (*entities.Course, error) {
	course, err := s.store.GetByID(id)
	if err != nil {
		return nil, translate(err, courseResource, id)
	}
	return course, nil
}

// Roster lists the students enrolled in a course.
func (s *CourseService) Roster(id uint) ([]entities.Student, error) {
	roster, err := s.store.Roster(id)
	if err != nil {
		return nil, translate(err, courseResource, id)
	}
	return roster, nil
}

func (s *CourseService) Update(userID, id uint, patch CoursePatch) (*entities.Course, error) {
	updates, fields := patch.columns()
	course, err := s.store.Update(id, updates)
	if err != nil {
		return nil, translate(err, courseResource, id)
	}
	if len(fields) > 0 {
		s.auditor.LogUpdate(userID, "course", id, course.Title, fields)
	}
	return course, nil
}

func (s *CourseService) Delete(userID, id uint) error {
	course, err := s.store.GetByID(id)
	if err != nil {
		return translate(err, courseResource, id)
	}
	if err := s.store.Delete(id); err != nil {
		return translate(err, courseResource, id)
	}
	s.auditor.LogDelete(userID, "course", id, course.Title)
	return nil
}

func (s *CourseService) DeleteAll(userID uint) (int64, error) {
	deleted, err := s.store.DeleteAll()
	if err != nil {
		return 0, err
	}
	s.auditor.LogBulkDelete(userID, "course", deleted)
	return deleted, nil
}
