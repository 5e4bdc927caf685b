package services

import (
	"context"

	"github.com/rulingo/backoffice/internal/app/auth"
	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/models/dto"
	"github.com/rulingo/backoffice/internal/app/repositories"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
	"github.com/rulingo/backoffice/internal/pkg/validation"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	Create(ctx context.Context, actor auth.Actor, req *dto.CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Course, error)
	List(ctx context.Context, actor auth.Actor) ([]*models.Course, error)
	Update(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, actor auth.Actor, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	tutorRepo  repositories.ITutorRepository
	courseRepo repositories.ICourseRepository
	syncer     EnrollmentSyncer
}

// NewCourseService creates a new course service instance
func NewCourseService(
	tutorRepo repositories.ITutorRepository,
	courseRepo repositories.ICourseRepository,
	syncer EnrollmentSyncer,
) CourseService {
	return &courseServiceImpl{
		tutorRepo:  tutorRepo,
		courseRepo: courseRepo,
		syncer:     syncer,
	}
}

// Create creates a course. A privileged actor must name the owning tutor; a
// tutor actor owns what they create, overriding any supplied value. Demo
// courses then get the auto-enrollment pass, which is best-effort and never
// fails the creation.
func (s *courseServiceImpl) Create(ctx context.Context, actor auth.Actor, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	tutorID, err := s.resolveOwner(ctx, actor, req.TutorID)
	if err != nil {
		return nil, err
	}

	courseType := req.Type
	if courseType == "" {
		courseType = models.DefaultCourseType
	}

	course := &models.Course{
		TutorID:     tutorID,
		Title:       req.Title,
		Description: req.Description,
		Type:        courseType,
	}

	if _, err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.syncer.CourseCreated(ctx, course)

	return course, nil
}

// resolveOwner applies the assignment rule for a new course.
func (s *courseServiceImpl) resolveOwner(ctx context.Context, actor auth.Actor, requestedTutorID int64) (int64, error) {
	if actor.IsPrivileged() {
		if requestedTutorID == 0 {
			return 0, apperrors.NewMissingAssignmentError("a privileged actor must select the owning tutor")
		}
		tutor, err := s.tutorRepo.GetByID(ctx, requestedTutorID, models.ScopeAll())
		if err != nil {
			return 0, err
		}
		return tutor.ID, nil
	}

	if !actor.IsTutor() {
		return 0, apperrors.NewRoleConflictError("this account has no tutor profile")
	}

	// Tutor actors own what they create; a supplied tutor id is ignored.
	return actor.Tutor.ID, nil
}

// GetByID returns a course if it lies within the actor's scope
func (s *courseServiceImpl) GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id, actor.Scope())
}

// List returns the courses visible to the actor
func (s *courseServiceImpl) List(ctx context.Context, actor auth.Actor) ([]*models.Course, error) {
	return s.courseRepo.List(ctx, actor.Scope())
}

// Update edits a course's title and description. The type is locked after
// creation.
func (s *courseServiceImpl) Update(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, id, actor.Scope())
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// Delete removes a course within the actor's scope
func (s *courseServiceImpl) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	course, err := s.courseRepo.GetByID(ctx, id, actor.Scope())
	if err != nil {
		return err
	}

	return s.courseRepo.Delete(ctx, course.ID)
}
