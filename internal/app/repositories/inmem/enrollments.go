package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

// EnrollmentRepository is the in-memory enrollments table.
type EnrollmentRepository struct {
	store *Store
}

// CreateIfAbsent inserts the enrollment unless the (student, course) pair
// already exists, in which case the existing row is copied into enrollment
// and created=false is returned.
func (r *EnrollmentRepository) CreateIfAbsent(ctx context.Context, enrollment *models.Enrollment) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.CourseID == enrollment.CourseID {
			*enrollment = *cloneEnrollment(existing)
			return false, nil
		}
	}

	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentActive
	}
	s.enrollmentSeq++
	enrollment.ID = s.enrollmentSeq
	enrollment.EnrolledAt = s.now()
	enrollment.UpdatedAt = enrollment.EnrolledAt
	s.enrollments[enrollment.ID] = cloneEnrollment(enrollment)
	return true, nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Enrollment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.None() {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	enrollment, ok := s.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	if !s.enrollmentInScopeLocked(enrollment, scope) {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return cloneEnrollment(enrollment), nil
}

func (r *EnrollmentRepository) GetByPair(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, enrollment := range s.enrollments {
		if enrollment.StudentID == studentID && enrollment.CourseID == courseID {
			return cloneEnrollment(enrollment), nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (r *EnrollmentRepository) List(ctx context.Context, scope models.Scope) ([]*models.Enrollment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.None() {
		return nil, nil
	}

	var enrollments []*models.Enrollment
	for _, enrollment := range s.enrollments {
		if s.enrollmentInScopeLocked(enrollment, scope) {
			enrollments = append(enrollments, cloneEnrollment(enrollment))
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID > enrollments[j].ID })
	return enrollments, nil
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var enrollments []*models.Enrollment
	for _, enrollment := range s.enrollments {
		if enrollment.CourseID == courseID {
			enrollments = append(enrollments, cloneEnrollment(enrollment))
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID > enrollments[j].ID })
	return enrollments, nil
}

func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus, completedAt *time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment, ok := s.enrollments[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	enrollment.Status = status
	if completedAt != nil {
		t := *completedAt
		enrollment.CompletedAt = &t
	} else {
		enrollment.CompletedAt = nil
	}
	enrollment.UpdatedAt = s.now()
	return nil
}

// enrollmentInScopeLocked resolves scope through the owning course, matching
// the join the database repository performs.
func (s *Store) enrollmentInScopeLocked(enrollment *models.Enrollment, scope models.Scope) bool {
	if scope.All() {
		return true
	}
	tutorID, restricted := scope.Tutor()
	if !restricted {
		return false
	}
	course, ok := s.courses[enrollment.CourseID]
	return ok && course.TutorID == tutorID
}
