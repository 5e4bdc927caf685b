package dto

import "github.com/rulingo/backoffice/internal/app/models"

// AccountFields carries the identity fields for a compound account+profile
// creation. The account and the profile persist or fail as one unit.
type AccountFields struct {
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"firstName" validate:"required,max=150"`
	LastName        string `json:"lastName" validate:"required,max=150"`
	Password        string `json:"password" validate:"required,min=4"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// CreateTutorRequest creates a tutor profile for an existing account.
type CreateTutorRequest struct {
	AccountID       int64  `json:"accountId" validate:"required,min=1"`
	Bio             string `json:"bio"`
	ExperienceYears int    `json:"experienceYears" validate:"min=0"`
}

// UpdateTutorRequest edits the mutable tutor fields.
type UpdateTutorRequest struct {
	Bio             string `json:"bio"`
	ExperienceYears int    `json:"experienceYears" validate:"min=0"`
}

// CreateStudentRequest is the tutor-facing student creation shape; the creating
// tutor is taken from the actor, never from the request.
type CreateStudentRequest struct {
	Account AccountFields `json:"account" validate:"required"`
}

// AdminCreateStudentRequest is the privileged creation shape. The owning tutor
// is an explicit, required selection.
type AdminCreateStudentRequest struct {
	Account AccountFields `json:"account" validate:"required"`
	TutorID int64         `json:"tutorId" validate:"required,min=1"`
}

// UpdateStudentRequest edits the account-info fields of an existing student.
type UpdateStudentRequest struct {
	FirstName string `json:"firstName" validate:"required,max=150"`
	LastName  string `json:"lastName" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
}

// CreateCourseRequest creates a course. TutorID is required for privileged
// actors and ignored for tutor actors, who always own what they create.
type CreateCourseRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"required"`
	Type        models.CourseType `json:"courseType" validate:"omitempty,oneof=demo level custom"`
	TutorID     int64             `json:"tutorId" validate:"omitempty,min=1"`
}

// UpdateCourseRequest edits title and description. The course type is locked
// after creation.
type UpdateCourseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

// CreateEnrollmentRequest enrolls a student into a course.
type CreateEnrollmentRequest struct {
	StudentID int64                   `json:"studentId" validate:"required,min=1"`
	CourseID  int64                   `json:"courseId" validate:"required,min=1"`
	Status    models.EnrollmentStatus `json:"status" validate:"omitempty,oneof=active completed dropped"`
}
