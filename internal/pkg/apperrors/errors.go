package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound              = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Policy errors
	ErrRoleConflict       = errors.New("account already holds a role")
	ErrMissingAssignment  = errors.New("owning tutor must be selected")
	ErrOwnershipViolation = errors.New("entity is outside the actor's ownership scope")
	ErrTutorHasStudents   = errors.New("tutor still has students and cannot be deleted")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
)

// Account errors
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrUsernameAlreadyTaken = errors.New("username already taken")
	ErrEmailAlreadyExists   = errors.New("email already exists")
)

// Profile errors
var (
	ErrTutorNotFound   = errors.New("tutor not found")
	ErrStudentNotFound = errors.New("student not found")
)

// Catalog errors
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidCourseType  = errors.New("invalid course type")
	ErrInvalidStatus      = errors.New("invalid enrollment status")
)

// NewRoleConflictError creates an error for an account that already holds a role.
func NewRoleConflictError(message string) error {
	return &CustomError{
		Err:     ErrRoleConflict,
		Message: message,
	}
}

// NewMissingAssignmentError creates an error for a privileged create that omitted
// the owning tutor.
func NewMissingAssignmentError(message string) error {
	return &CustomError{
		Err:     ErrMissingAssignment,
		Message: message,
	}
}

// NewOwnershipViolationError creates an error for an actor acting outside their scope.
func NewOwnershipViolationError(message string) error {
	return &CustomError{
		Err:     ErrOwnershipViolation,
		Message: message,
	}
}

// NewNotFoundError creates a new custom error for resource not found with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// NewValidationError creates a field-level validation error with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
