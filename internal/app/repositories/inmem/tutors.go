package inmem

import (
	"context"
	"sort"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

// TutorRepository is the in-memory tutor view of the profiles table.
type TutorRepository struct {
	store *Store
}

func (r *TutorRepository) Create(ctx context.Context, tutor *models.Tutor) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.profileAccountRole(tutor.AccountID); held {
		return 0, apperrors.ErrRoleConflict
	}

	s.profileSeq++
	tutor.ID = s.profileSeq
	tutor.CreatedAt = s.now()
	s.tutors[tutor.ID] = cloneTutor(tutor)
	return tutor.ID, nil
}

func (r *TutorRepository) GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Tutor, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.None() {
		return nil, apperrors.ErrTutorNotFound
	}
	if tutorID, ok := scope.Tutor(); ok && tutorID != id {
		return nil, apperrors.ErrTutorNotFound
	}

	tutor, ok := s.tutors[id]
	if !ok {
		return nil, apperrors.ErrTutorNotFound
	}
	return s.tutorWithAccountLocked(tutor), nil
}

func (r *TutorRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Tutor, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tutor := range s.tutors {
		if tutor.AccountID == accountID {
			return s.tutorWithAccountLocked(tutor), nil
		}
	}
	return nil, apperrors.ErrTutorNotFound
}

func (r *TutorRepository) List(ctx context.Context, scope models.Scope) ([]*models.Tutor, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.None() {
		return nil, nil
	}

	var tutors []*models.Tutor
	for _, tutor := range s.tutors {
		if tutorID, ok := scope.Tutor(); ok && tutor.ID != tutorID {
			continue
		}
		tutors = append(tutors, s.tutorWithAccountLocked(tutor))
	}
	sort.Slice(tutors, func(i, j int) bool { return tutors[i].ID > tutors[j].ID })
	return tutors, nil
}

func (r *TutorRepository) Update(ctx context.Context, tutor *models.Tutor) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tutors[tutor.ID]
	if !ok {
		return apperrors.ErrTutorNotFound
	}
	existing.Bio = tutor.Bio
	existing.ExperienceYears = tutor.ExperienceYears
	return nil
}

// Delete removes a tutor. Deletion is refused while any student still points
// at the tutor; owned courses and their enrollments go with the tutor.
func (r *TutorRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tutors[id]; !ok {
		return apperrors.ErrTutorNotFound
	}
	for _, student := range s.students {
		if student.CreatedBy == id {
			return apperrors.ErrTutorHasStudents
		}
	}

	for courseID, course := range s.courses {
		if course.TutorID != id {
			continue
		}
		for enrollmentID, enrollment := range s.enrollments {
			if enrollment.CourseID == courseID {
				delete(s.enrollments, enrollmentID)
			}
		}
		delete(s.courses, courseID)
	}
	delete(s.tutors, id)
	return nil
}

func (s *Store) tutorWithAccountLocked(tutor *models.Tutor) *models.Tutor {
	out := cloneTutor(tutor)
	if account, ok := s.accounts[tutor.AccountID]; ok {
		out.Account = cloneAccount(account)
	}
	return out
}
