package models

import (
	"time"
)

// CourseType classifies a course. Demo courses drive bulk auto-enrollment.
type CourseType string

const (
	CourseTypeDemo   CourseType = "demo"
	CourseTypeLevel  CourseType = "level"
	CourseTypeCustom CourseType = "custom"
)

// DefaultCourseType applies when a create request leaves the type empty.
const DefaultCourseType = CourseTypeLevel

// ValidCourseType reports whether t is a known course type.
func ValidCourseType(t CourseType) bool {
	switch t {
	case CourseTypeDemo, CourseTypeLevel, CourseTypeCustom:
		return true
	}
	return false
}

// MaxCourseTitleLength caps course titles.
const MaxCourseTitleLength = 200

// Course represents a teachable unit owned by a tutor. The type is fixed at
// creation; title and description remain editable.
type Course struct {
	ID          int64      `json:"id" db:"id"`
	TutorID     int64      `json:"tutorId" db:"tutor_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Type        CourseType `json:"courseType" db:"course_type"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Relation (populated when needed)
	Tutor *Tutor `json:"tutor,omitempty"`
}

// IsDemo reports whether the course triggers auto-enrollment.
func (c *Course) IsDemo() bool {
	return c.Type == CourseTypeDemo
}
