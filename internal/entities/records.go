package entities

import "time"

type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"index;size:100;not null" json:"email"`
	Courses   []Course  `gorm:"many2many:enrolments;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"index;size:100;not null" json:"title"`
	Description string    `gorm:"size:200;not null" json:"description"`
	Students    []Student `gorm:"many2many:enrolments;constraint:OnDelete:CASCADE" json:"students,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Enrolment is the join row between students and courses.
// The composite primary key keeps a pair unique.
type Enrolment struct {
	StudentID uint      `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	CourseID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"course_id"`
	CreatedAt time.Time `json:"enrolled_at"`
}

func (Enrolment) TableName() string {
	return "enrolments"
}

// EnrolmentDetail is an enrolment joined with the names of both sides.
type EnrolmentDetail struct {
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

// CourseTitles returns the titles of the student's loaded courses.
// The result is never nil so it serializes as an empty JSON list.
func (s Student) CourseTitles() []string {
	titles := make([]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		titles = append(titles, c.Title)
	}
	return titles
}

// StudentNames returns the names of the course's loaded students.
func (c Course) StudentNames() []string {
	names := make([]string, 0, len(c.Students))
	for _, s := range c.Students {
		names = append(names, s.Name)
	}
	return names
}
