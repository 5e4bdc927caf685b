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

// StudentService defines the interface for student-related operations.
// Creation is a compound operation: the backing account and the student
// profile persist as one atomic unit.
type StudentService interface {
	Create(ctx context.Context, actor auth.Actor, req *dto.CreateStudentRequest) (*models.Student, error)
	AdminCreate(ctx context.Context, actor auth.Actor, req *dto.AdminCreateStudentRequest) (*models.Student, error)
	GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Student, error)
	List(ctx context.Context, actor auth.Actor) ([]*models.Student, error)
	Update(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	accountRepo repositories.IAccountRepository
	tutorRepo   repositories.ITutorRepository
	studentRepo repositories.IStudentRepository
	guard       *auth.RoleGuard
	syncer      EnrollmentSyncer
}

// NewStudentService creates a new student service instance
func NewStudentService(
	accountRepo repositories.IAccountRepository,
	tutorRepo repositories.ITutorRepository,
	studentRepo repositories.IStudentRepository,
	guard *auth.RoleGuard,
	syncer EnrollmentSyncer,
) StudentService {
	return &studentServiceImpl{
		accountRepo: accountRepo,
		tutorRepo:   tutorRepo,
		studentRepo: studentRepo,
		guard:       guard,
		syncer:      syncer,
	}
}

// Create is the tutor-facing creation path: the creating tutor is always the
// actor, regardless of anything the caller supplies. Privileged actors must
// use AdminCreate, where the owning tutor is an explicit choice.
func (s *studentServiceImpl) Create(ctx context.Context, actor auth.Actor, req *dto.CreateStudentRequest) (*models.Student, error) {
	if actor.IsPrivileged() {
		return nil, apperrors.NewMissingAssignmentError("a privileged actor must select the owning tutor")
	}
	if !actor.IsTutor() {
		return nil, apperrors.NewRoleConflictError("this account has no tutor profile")
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	return s.createStudent(ctx, &req.Account, actor.Tutor.ID)
}

// AdminCreate is the privileged creation path with an explicit tutor
// selection.
func (s *studentServiceImpl) AdminCreate(ctx context.Context, actor auth.Actor, req *dto.AdminCreateStudentRequest) (*models.Student, error) {
	if !actor.IsPrivileged() {
		return nil, apperrors.NewOwnershipViolationError("only privileged actors may assign students to another tutor")
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	tutor, err := s.tutorRepo.GetByID(ctx, req.TutorID, models.ScopeAll())
	if err != nil {
		return nil, err
	}

	return s.createStudent(ctx, &req.Account, tutor.ID)
}

// createStudent runs the compound account+profile creation and then the
// auto-enrollment pass. The pass is best-effort and never fails the creation.
func (s *studentServiceImpl) createStudent(ctx context.Context, fields *dto.AccountFields, tutorID int64) (*models.Student, error) {
	if taken, err := s.accountRepo.UsernameExists(ctx, fields.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrUsernameAlreadyTaken
	}

	if taken, err := s.accountRepo.EmailExists(ctx, fields.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	account := &models.Account{
		Username:  fields.Username,
		Email:     fields.Email,
		Password:  fields.Password,
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
	}
	student := &models.Student{CreatedBy: tutorID}

	if err := s.studentRepo.CreateWithAccount(ctx, account, student); err != nil {
		return nil, err
	}

	s.syncer.StudentCreated(ctx, student)

	return student, nil
}

// GetByID returns a student if it lies within the actor's scope
func (s *studentServiceImpl) GetByID(ctx context.Context, actor auth.Actor, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id, actor.Scope())
}

// List returns the students visible to the actor
func (s *studentServiceImpl) List(ctx context.Context, actor auth.Actor) ([]*models.Student, error) {
	return s.studentRepo.List(ctx, actor.Scope())
}

// Update edits a student's account info. The role-exclusivity check runs on
// every save, the same as on creation.
func (s *studentServiceImpl) Update(ctx context.Context, actor auth.Actor, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, id, actor.Scope())
	if err != nil {
		return nil, err
	}

	if err := s.guard.RevalidateRole(ctx, student.AccountID, models.RoleStudent); err != nil {
		return nil, err
	}

	if taken, err := s.accountRepo.EmailExistsExcept(ctx, req.Email, student.AccountID); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	if err := s.accountRepo.UpdateInfo(ctx, student.AccountID, req.FirstName, req.LastName, req.Email); err != nil {
		return nil, err
	}

	if student.Account != nil {
		student.Account.FirstName = req.FirstName
		student.Account.LastName = req.LastName
		student.Account.Email = req.Email
	}

	return student, nil
}
