package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/registrar/internal/export"
)

type recordingExportAuditor struct {
	descriptions []string
	errs         []error
}

func (r *recordingExportAuditor) LogExport(_ uint, description string, err error) {
	r.descriptions = append(r.descriptions, description)
	r.errs = append(r.errs, err)
}

func TestExportRoster(t *testing.T) {
	api := setupTestAPI(t)
	ada := api.createStudent(t, "Ada", "ada@example.com")
	algebra := api.createCourse(t, "Algebra", "Groups and rings")
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/students/"+itoa(ada)+"/enroll", map[string]uint{"course_id": algebra}).Code)

	w := api.do(t, http.MethodGet, "/api/export/roster.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetStudents, export.SheetCourses, export.SheetEnrolments}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetEnrolments)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "Ada")
	assert.Contains(t, rows[1], "Algebra")
}

func TestExportRoster_Audited(t *testing.T) {
	api := setupTestAPI(t)
	auditor := &recordingExportAuditor{}

	controller := NewExportController(api.students, api.courses, api.enrolments, auditor)

	router := gin.New()
	router.GET("/export", controller.Roster)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, auditor.descriptions, 1)
	assert.Equal(t, "Exported 0 students, 0 courses, 0 enrolments", auditor.descriptions[0])
	assert.NoError(t, auditor.errs[0])
}
