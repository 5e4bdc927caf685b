package services

import (
	"context"

	"github.com/rulingo/backoffice/internal/app/auth"
	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/models/dto"
	"github.com/rulingo/backoffice/internal/app/repositories"
	"github.com/rulingo/backoffice/internal/pkg/validation"
)

// TutorService defines the interface for tutor-related operations
type TutorService interface {
	Create(ctx context.Context, req *dto.CreateTutorRequest) (*models.Tutor, error)
	GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Tutor, error)
	List(ctx context.Context, actor auth.Actor) ([]*models.Tutor, error)
	Update(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateTutorRequest) (*models.Tutor, error)
	Delete(ctx context.Context, actor auth.Actor, id int64) error
}

// tutorServiceImpl implements the TutorService interface
type tutorServiceImpl struct {
	accountRepo repositories.IAccountRepository
	tutorRepo   repositories.ITutorRepository
	guard       *auth.RoleGuard
}

// NewTutorService creates a new tutor service instance
func NewTutorService(
	accountRepo repositories.IAccountRepository,
	tutorRepo repositories.ITutorRepository,
	guard *auth.RoleGuard,
) TutorService {
	return &tutorServiceImpl{
		accountRepo: accountRepo,
		tutorRepo:   tutorRepo,
		guard:       guard,
	}
}

// Create creates a tutor profile for an existing account. The account must
// not already hold a role.
func (s *tutorServiceImpl) Create(ctx context.Context, req *dto.CreateTutorRequest) (*models.Tutor, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.ValidateNewRole(ctx, account.ID); err != nil {
		return nil, err
	}

	tutor := &models.Tutor{
		AccountID:       account.ID,
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
	}

	if _, err := s.tutorRepo.Create(ctx, tutor); err != nil {
		return nil, err
	}

	tutor.Account = account
	return tutor, nil
}

// GetByID returns a tutor if it lies within the actor's scope
func (s *tutorServiceImpl) GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Tutor, error) {
	return s.tutorRepo.GetByID(ctx, id, actor.Scope())
}

// List returns the tutors visible to the actor
func (s *tutorServiceImpl) List(ctx context.Context, actor auth.Actor) ([]*models.Tutor, error) {
	return s.tutorRepo.List(ctx, actor.Scope())
}

// Update edits a tutor's bio and years of experience. The exclusivity check
// runs again on every save.
func (s *tutorServiceImpl) Update(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateTutorRequest) (*models.Tutor, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	tutor, err := s.tutorRepo.GetByID(ctx, id, actor.Scope())
	if err != nil {
		return nil, err
	}

	if err := s.guard.RevalidateRole(ctx, tutor.AccountID, models.RoleTutor); err != nil {
		return nil, err
	}

	tutor.Bio = req.Bio
	tutor.ExperienceYears = req.ExperienceYears

	if err := s.tutorRepo.Update(ctx, tutor); err != nil {
		return nil, err
	}

	return tutor, nil
}

// Delete removes a tutor within the actor's scope. A tutor with students is
// protected and the delete fails; a tutor without students takes its courses
// down with it.
func (s *tutorServiceImpl) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	tutor, err := s.tutorRepo.GetByID(ctx, id, actor.Scope())
	if err != nil {
		return err
	}

	return s.tutorRepo.Delete(ctx, tutor.ID)
}
