package inmem

import (
	"context"
	"sort"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

// CourseRepository is the in-memory courses table.
type CourseRepository struct {
	store *Store
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tutors[course.TutorID]; !ok {
		return 0, apperrors.ErrTutorNotFound
	}

	s.courseSeq++
	course.ID = s.courseSeq
	course.CreatedAt = s.now()
	course.UpdatedAt = course.CreatedAt
	s.courses[course.ID] = cloneCourse(course)
	return course.ID, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Course, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.None() {
		return nil, apperrors.ErrCourseNotFound
	}

	course, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	if tutorID, restricted := scope.Tutor(); restricted && course.TutorID != tutorID {
		return nil, apperrors.ErrCourseNotFound
	}
	return cloneCourse(course), nil
}

func (r *CourseRepository) List(ctx context.Context, scope models.Scope) ([]*models.Course, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.None() {
		return nil, nil
	}

	var courses []*models.Course
	for _, course := range s.courses {
		if tutorID, restricted := scope.Tutor(); restricted && course.TutorID != tutorID {
			continue
		}
		courses = append(courses, cloneCourse(course))
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID > courses[j].ID })
	return courses, nil
}

func (r *CourseRepository) ListByTutorAndType(ctx context.Context, tutorID int64, courseType models.CourseType) ([]*models.Course, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var courses []*models.Course
	for _, course := range s.courses {
		if course.TutorID == tutorID && course.Type == courseType {
			courses = append(courses, cloneCourse(course))
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID > courses[j].ID })
	return courses, nil
}

// Update persists title and description only; the course type is fixed at
// creation.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	existing.Title = course.Title
	existing.Description = course.Description
	existing.UpdatedAt = s.now()
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for enrollmentID, enrollment := range s.enrollments {
		if enrollment.CourseID == id {
			delete(s.enrollments, enrollmentID)
		}
	}
	delete(s.courses, id)
	return nil
}
