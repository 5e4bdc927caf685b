package services

import (
	"context"
	"time"

	"github.com/rulingo/backoffice/internal/app/auth"
	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/models/dto"
	"github.com/rulingo/backoffice/internal/app/repositories"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
	"github.com/rulingo/backoffice/internal/pkg/validation"
)

// EnrollmentService defines the interface for enrollment-related operations
type EnrollmentService interface {
	Create(ctx context.Context, actor auth.Actor, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error)
	GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Enrollment, error)
	List(ctx context.Context, actor auth.Actor) ([]*models.Enrollment, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, id int64, status models.EnrollmentStatus) (*models.Enrollment, error)
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	studentRepo    repositories.IStudentRepository
	courseRepo     repositories.ICourseRepository
	enrollmentRepo repositories.IEnrollmentRepository
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	studentRepo repositories.IStudentRepository,
	courseRepo repositories.ICourseRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
) EnrollmentService {
	return &enrollmentServiceImpl{
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Create enrolls a student into a course. A non-privileged actor must own
// both the course and the student; a violation persists nothing. Creation is
// idempotent on the (student, course) pair: an existing enrollment is
// returned as-is.
func (s *enrollmentServiceImpl) Create(ctx context.Context, actor auth.Actor, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID, models.ScopeAll())
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.GetByID(ctx, req.StudentID, models.ScopeAll())
	if err != nil {
		return nil, err
	}

	if !actor.IsPrivileged() {
		if !actor.IsTutor() {
			return nil, apperrors.NewOwnershipViolationError("this account has no tutor profile")
		}
		if course.TutorID != actor.Tutor.ID {
			return nil, apperrors.NewOwnershipViolationError("the course is owned by another tutor")
		}
		if student.CreatedBy != actor.Tutor.ID {
			return nil, apperrors.NewOwnershipViolationError("the student was created by another tutor")
		}
	}

	status := req.Status
	if status == "" {
		status = models.EnrollmentActive
	}

	enrollment := &models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		Status:    status,
	}

	if _, err := s.enrollmentRepo.CreateIfAbsent(ctx, enrollment); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// GetByID returns an enrollment if it lies within the actor's scope
func (s *enrollmentServiceImpl) GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Enrollment, error) {
	return s.enrollmentRepo.GetByID(ctx, id, actor.Scope())
}

// List returns the enrollments visible to the actor
func (s *enrollmentServiceImpl) List(ctx context.Context, actor auth.Actor) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.List(ctx, actor.Scope())
}

// UpdateStatus transitions an enrollment's status. Completing stamps the
// completion time; any other transition clears it.
func (s *enrollmentServiceImpl) UpdateStatus(ctx context.Context, actor auth.Actor, id int64, status models.EnrollmentStatus) (*models.Enrollment, error) {
	if !models.ValidEnrollmentStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	enrollment, err := s.enrollmentRepo.GetByID(ctx, id, actor.Scope())
	if err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if status == models.EnrollmentCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, status, completedAt); err != nil {
		return nil, err
	}

	enrollment.Status = status
	enrollment.CompletedAt = completedAt

	return enrollment, nil
}
