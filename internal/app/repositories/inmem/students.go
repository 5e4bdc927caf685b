package inmem

import (
	"context"
	"sort"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

// StudentRepository is the in-memory student view of the profiles table.
type StudentRepository struct {
	store *Store
}

// CreateWithAccount persists the account and the student profile as one unit,
// matching the transactional behavior of the database repository.
func (r *StudentRepository) CreateWithAccount(ctx context.Context, account *models.Account, student *models.Student) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID, err := s.insertAccountLocked(account)
	if err != nil {
		return err
	}
	if _, held := s.profileAccountRole(accountID); held {
		delete(s.accounts, accountID)
		return apperrors.ErrRoleConflict
	}

	s.profileSeq++
	student.ID = s.profileSeq
	student.AccountID = accountID
	student.CreatedAt = s.now()
	s.students[student.ID] = cloneStudent(student)
	student.Account = cloneAccount(account)
	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Student, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.None() {
		return nil, apperrors.ErrStudentNotFound
	}

	student, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	if tutorID, restricted := scope.Tutor(); restricted && student.CreatedBy != tutorID {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.studentWithAccountLocked(student), nil
}

func (r *StudentRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, student := range s.students {
		if student.AccountID == accountID {
			return s.studentWithAccountLocked(student), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *StudentRepository) List(ctx context.Context, scope models.Scope) ([]*models.Student, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.None() {
		return nil, nil
	}

	var students []*models.Student
	for _, student := range s.students {
		if tutorID, restricted := scope.Tutor(); restricted && student.CreatedBy != tutorID {
			continue
		}
		students = append(students, s.studentWithAccountLocked(student))
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID > students[j].ID })
	return students, nil
}

func (r *StudentRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*models.Student, error) {
	return r.List(ctx, models.ScopeTutor(tutorID))
}

func (r *StudentRepository) CountByTutor(ctx context.Context, tutorID int64) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, student := range s.students {
		if student.CreatedBy == tutorID {
			count++
		}
	}
	return count, nil
}

func (s *Store) studentWithAccountLocked(student *models.Student) *models.Student {
	out := cloneStudent(student)
	if account, ok := s.accounts[student.AccountID]; ok {
		out.Account = cloneAccount(account)
	}
	return out
}
