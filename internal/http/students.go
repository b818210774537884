package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/registrar/internal/entities"
	"github.com/mrlokans/registrar/internal/services"
)

// studentSummary is the shape returned on create and in rosters.
type studentSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// studentDetail adds the titles of the courses the student attends.
type studentDetail struct {
	studentSummary
	Courses []string `json:"courses"`
}

func summarizeStudent(s entities.Student) studentSummary {
	return studentSummary{ID: s.ID, Name: s.Name, Email: s.Email}
}

func detailStudent(s entities.Student) studentDetail {
	return studentDetail{studentSummary: summarizeStudent(s), Courses: s.CourseTitles()}
}

type StudentsController struct {
	service StudentService
}

func NewStudentsController(service StudentService) *StudentsController {
	return &StudentsController{service: service}
}

// Create handles POST /students
func (sc *StudentsController) Create(c *gin.Context) {
	var in services.StudentInput
	if !bindJSON(c, &in) {
		return
	}

	student, err := sc.service.Create(GetUserID(c), in)
	if err != nil {
		respondServiceError(c, err, "create student")
		return
	}

	respondCreated(c, gin.H{
		"message": "Student added successfully",
		"student": summarizeStudent(*student),
	})
}

// List handles GET /students
func (sc *StudentsController) List(c *gin.Context) {
	students, err := sc.service.List()
	if err != nil {
		respondInternalError(c, err, "list students")
		return
	}

	out := make([]studentDetail, 0, len(students))
	for _, s := range students {
		out = append(out, detailStudent(s))
	}
	c.JSON(http.StatusOK, gin.H{"students": out})
}

// Get handles GET /students/:id
func (sc *StudentsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := sc.service.Get(id)
	if err != nil {
		respondServiceError(c, err, "get student")
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": detailStudent(*student)})
}

// Update handles PUT /students/:id. Absent or empty fields are left unchanged.
func (sc *StudentsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	// A missing record wins over a bad body.
	if _, err := sc.service.Get(id); err != nil {
		respondServiceError(c, err, "update student")
		return
	}
	var patch services.StudentPatch
	if !bindJSON(c, &patch) {
		return
	}

	if _, err := sc.service.Update(GetUserID(c), id, patch); err != nil {
		respondServiceError(c, err, "update student")
		return
	}
	respondSuccess(c, fmt.Sprintf("Student with ID %d updated successfully", id))
}

// Delete handles DELETE /students/:id. Enrolments of the student go with it.
func (sc *StudentsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.service.Delete(GetUserID(c), id); err != nil {
		respondServiceError(c, err, "delete student")
		return
	}
	respondSuccess(c, fmt.Sprintf("Student with ID %d deleted successfully", id))
}

// DeleteAll handles DELETE /students
func (sc *StudentsController) DeleteAll(c *gin.Context) {
	deleted, err := sc.service.DeleteAll(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "delete all students")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Deleted %d students", deleted),
		"deleted": deleted,
	})
}
