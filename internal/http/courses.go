package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/registrar/internal/entities"
	"github.com/mrlokans/registrar/internal/services"
)

type courseSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func summarizeCourse(c entities.Course) courseSummary {
	return courseSummary{ID: c.ID, Title: c.Title, Description: c.Description}
}

type CoursesController struct {
	service CourseService
}

func NewCoursesController(service CourseService) *CoursesController {
	return &CoursesController{service: service}
}

// Create handles POST /courses
func (cc *CoursesController) Create(c *gin.Context) {
	var in services.CourseInput
	if !bindJSON(c, &in) {
		return
	}

	course, err := cc.service.Create(GetUserID(c), in)
	if err != nil {
		respondServiceError(c, err, "create course")
		return
	}

	respondCreated(c, gin.H{
		"message": "Course added successfully",
		"course":  summarizeCourse(*course),
	})
}

// List handles GET /courses
func (cc *CoursesController) List(c *gin.Context) {
	courses, err := cc.service.List()
	if err != nil {
		respondInternalError(c, err, "list courses")
		return
	}

	out := make([]courseSummary, 0, len(courses))
	for _, course := range courses {
		out = append(out, summarizeCourse(course))
	}
	c.JSON(http.StatusOK, gin.H{"courses": out})
}

// Get handles GET /courses/:id. The response lists the names of enrolled students.
func (cc *CoursesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := cc.service.Get(id)
	if err != nil {
		respondServiceError(c, err, "get course")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"course":   summarizeCourse(*course),
		"students": course.StudentNames(),
	})
}

// Students handles GET /courses/:id/students
func (cc *CoursesController) Students(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roster, err := cc.service.Roster(id)
	if err != nil {
		respondServiceError(c, err, "course roster")
		return
	}

	out := make([]studentSummary, 0, len(roster))
	for _, s := range roster {
		out = append(out, summarizeStudent(s))
	}
	c.JSON(http.StatusOK, gin.H{"students": out})
}

// Update handles PUT /courses/:id
func (cc *CoursesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	// A missing record wins over a bad body.
	if _, err := cc.service.Get(id); err != nil {
		respondServiceError(c, err, "update course")
		return
	}
	var patch services.CoursePatch
	if !bindJSON(c, &patch) {
		return
	}

	if _, err := cc.service.Update(GetUserID(c), id, patch); err != nil {
		respondServiceError(c, err, "update course")
		return
	}
	respondSuccess(c, fmt.Sprintf("Course with ID %d updated successfully", id))
}

// Delete handles DELETE /courses/:id
func (cc *CoursesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.service.Delete(GetUserID(c), id); err != nil {
		respondServiceError(c, err, "delete course")
		return
	}
	respondSuccess(c, fmt.Sprintf("Course with ID %d deleted successfully", id))
}

// DeleteAll handles DELETE /courses
func (cc *CoursesController) DeleteAll(c *gin.Context) {
	deleted, err := cc.service.DeleteAll(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "delete all courses")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Deleted %d courses", deleted),
		"deleted": deleted,
	})
}
