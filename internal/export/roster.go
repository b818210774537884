// Package export renders the registrar data as an XLSX workbook with one
// sheet per record type.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/registrar/internal/entities"
)

const (
	SheetStudents   = "Students"
	SheetCourses    = "Courses"
	SheetEnrolments = "Enrolments"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04:05"
)

// Roster is a snapshot of every record to export.
type Roster struct {
	Students   []entities.Student
	Courses    []entities.Course
	Enrolments []entities.EnrolmentDetail
}

type StudentLister interface {
	List() ([]entities.Student, error)
}

type CourseLister interface {
	List() ([]entities.Course, error)
}

type EnrolmentLister interface {
	List() ([]entities.EnrolmentDetail, error)
}

// Load reads a full snapshot from the three listers.
func Load(students StudentLister, courses CourseLister, enrolments EnrolmentLister) (Roster, error) {
	var r Roster
	var err error
	if r.Students, err = students.List(); err != nil {
		return r, fmt.Errorf("list students: %w", err)
	}
	if r.Courses, err = courses.List(); err != nil {
		return r, fmt.Errorf("list courses: %w", err)
	}
	if r.Enrolments, err = enrolments.List(); err != nil {
		return r, fmt.Errorf("list enrolments: %w", err)
	}
	return r, nil
}

// Workbook builds the XLSX file. The caller must Close it.
func Workbook(r Roster) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetStudents); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetCourses, SheetEnrolments} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	enrolled := make(map[uint]int, len(r.Courses))
	for _, e := range r.Enrolments {
		enrolled[e.CourseID]++
	}

	w := sheetWriter{f: f, header: header}
	w.rows(SheetStudents, []any{"ID", "Name", "Email", "Courses"}, len(r.Students), func(i int) []any {
		s := r.Students[i]
		return []any{s.ID, s.Name, s.Email, strings.Join(s.CourseTitles(), "; ")}
	})
	w.rows(SheetCourses, []any{"ID", "Title", "Description", "Students"}, len(r.Courses), func(i int) []any {
		c := r.Courses[i]
		return []any{c.ID, c.Title, c.Description, enrolled[c.ID]}
	})
	w.rows(SheetEnrolments, []any{"Student ID", "Student", "Course ID", "Course", "Enrolled At"}, len(r.Enrolments), func(i int) []any {
		e := r.Enrolments[i]
		return []any{e.StudentID, e.StudentName, e.CourseID, e.CourseTitle, e.EnrolledAt.UTC().Format(timeLayout)}
	})
	if w.err != nil {
		f.Close()
		return nil, w.err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook for r to out.
func Write(out io.Writer, r Roster) error {
	f, err := Workbook(r)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) rows(sheet string, header []any, n int, row func(i int) []any) {
	if w.err != nil {
		return
	}
	if w.err = w.f.SetSheetRow(sheet, "A1", &header); w.err != nil {
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if w.err = w.f.SetCellStyle(sheet, "A1", last, w.header); w.err != nil {
		return
	}
	for i := 0; i < n; i++ {
		values := row(i)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if w.err = w.f.SetSheetRow(sheet, cell, &values); w.err != nil {
			return
		}
	}
}
