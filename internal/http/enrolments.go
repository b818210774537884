package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/registrar/internal/entities"
	"github.com/mrlokans/registrar/internal/services"
)

type EnrolmentsController struct {
	service EnrolmentService
}

func NewEnrolmentsController(service EnrolmentService) *EnrolmentsController {
	return &EnrolmentsController{service: service}
}

// Enrol handles POST /students/:id/enroll with body {"course_id": n}.
// Enrolling an already enrolled pair succeeds without a second row.
func (ec *EnrolmentsController) Enrol(c *gin.Context) {
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in services.EnrolInput
	if !bindJSON(c, &in) {
		return
	}

	created, err := ec.service.Enrol(GetUserID(c), studentID, in)
	if err != nil {
		respondServiceError(c, err, "enrol student")
		return
	}

	if !created {
		respondSuccess(c, fmt.Sprintf("Student %d is already enrolled in course %d", studentID, in.CourseID))
		return
	}
	respondSuccess(c, fmt.Sprintf("Student %d enrolled in course %d", studentID, in.CourseID))
}

// Unenrol handles DELETE /students/:id/enroll/:course_id
func (ec *EnrolmentsController) Unenrol(c *gin.Context) {
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(c, "course_id")
	if !ok {
		return
	}

	if err := ec.service.Unenrol(GetUserID(c), studentID, courseID); err != nil {
		respondServiceError(c, err, "unenrol student")
		return
	}
	respondSuccess(c, fmt.Sprintf("Student %d withdrawn from course %d", studentID, courseID))
}

// List handles GET /enrolments
func (ec *EnrolmentsController) List(c *gin.Context) {
	enrolments, err := ec.service.List()
	if err != nil {
		respondInternalError(c, err, "list enrolments")
		return
	}
	if enrolments == nil {
		enrolments = []entities.EnrolmentDetail{}
	}
	c.JSON(http.StatusOK, gin.H{"enrolments": enrolments})
}
