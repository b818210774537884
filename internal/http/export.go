package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/registrar/internal/export"
)

// ExportAuditor is implemented by audit.Service.
type ExportAuditor interface {
	LogExport(userID uint, description string, err error)
}

type ExportController struct {
	students   export.StudentLister
	courses    export.CourseLister
	enrolments export.EnrolmentLister
	auditor    ExportAuditor
}

// NewExportController creates an ExportController. auditor may be nil.
func NewExportController(students export.StudentLister, courses export.CourseLister, enrolments export.EnrolmentLister, auditor ExportAuditor) *ExportController {
	return &ExportController{
		students:   students,
		courses:    courses,
		enrolments: enrolments,
		auditor:    auditor,
	}
}

// Roster handles GET /api/export/roster.xlsx
func (ec *ExportController) Roster(c *gin.Context) {
	roster, err := export.Load(ec.students, ec.courses, ec.enrolments)
	if err == nil {
		var buf bytes.Buffer
		if err = export.Write(&buf, roster); err == nil {
			ec.logExport(c, fmt.Sprintf("Exported %d students, %d courses, %d enrolments",
				len(roster.Students), len(roster.Courses), len(roster.Enrolments)), nil)

			filename := fmt.Sprintf("roster-%s.xlsx", time.Now().Format("20060102"))
			c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
			c.Data(http.StatusOK, export.ContentType, buf.Bytes())
			return
		}
	}

	ec.logExport(c, "Roster export failed", err)
	respondInternalError(c, err, "export roster")
}

func (ec *ExportController) logExport(c *gin.Context, description string, err error) {
	if ec.auditor != nil {
		ec.auditor.LogExport(GetUserID(c), description, err)
	}
}
