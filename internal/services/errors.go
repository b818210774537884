package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/registrar/internal/database/courses"
	"github.com/mrlokans/registrar/internal/database/enrolments"
	"github.com/mrlokans/registrar/internal/database/students"
)

// ErrNotEnrolled is returned when removing an enrolment that does not exist.
var ErrNotEnrolled = enrolments.ErrNotEnrolled

// ValidationError reports required fields that were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("field %s is required", f))
	}
	return strings.Join(msgs, ", ")
}

// NotFoundError reports a missing student or course.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func notFound(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// translate maps repository sentinel errors onto NotFoundError.
func translate(err error, resource string, id uint) error {
	if errors.Is(err, students.ErrNotFound) || errors.Is(err, courses.ErrNotFound) {
		return notFound(resource, id)
	}
	return err
}
