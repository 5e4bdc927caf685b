package services

import (
	"context"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/repositories"
	"github.com/rulingo/backoffice/internal/pkg/logger"
)

// EnrollmentSyncer keeps demo courses and their tutor's students mutually
// enrolled. It replaces implicit persistence hooks with an explicit step the
// creation operations invoke after the primary row is committed.
//
// Both triggers are best-effort: failures are logged and swallowed so the
// primary creation always stands. Both return the number of enrollments
// actually created, which is zero on re-runs thanks to the create-if-absent
// semantics.
type EnrollmentSyncer interface {
	CourseCreated(ctx context.Context, course *models.Course) int
	StudentCreated(ctx context.Context, student *models.Student) int
}

type enrollmentSyncerImpl struct {
	studentRepo    repositories.IStudentRepository
	courseRepo     repositories.ICourseRepository
	enrollmentRepo repositories.IEnrollmentRepository
}

// NewEnrollmentSyncer creates a new enrollment syncer instance
func NewEnrollmentSyncer(
	studentRepo repositories.IStudentRepository,
	courseRepo repositories.ICourseRepository,
	enrollmentRepo repositories.IEnrollmentRepository,
) EnrollmentSyncer {
	return &enrollmentSyncerImpl{
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// CourseCreated enrolls every student of the course's tutor into a newly
// created demo course. Non-demo courses are left alone.
func (s *enrollmentSyncerImpl) CourseCreated(ctx context.Context, course *models.Course) int {
	if !course.IsDemo() {
		return 0
	}

	students, err := s.studentRepo.ListByTutor(ctx, course.TutorID)
	if err != nil {
		logger.Error().Err(err).
			Int64("courseID", course.ID).
			Int64("tutorID", course.TutorID).
			Msg("Auto-enrollment skipped: could not list tutor's students")
		return 0
	}

	created := 0
	for _, student := range students {
		if s.ensureEnrolled(ctx, student.ID, course.ID) {
			created++
		}
	}

	logger.Info().
		Int64("courseID", course.ID).
		Int("students", len(students)).
		Int("created", created).
		Msg("Auto-enrolled students into demo course")
	return created
}

// StudentCreated enrolls a newly created student into every demo course of
// the tutor who created them.
func (s *enrollmentSyncerImpl) StudentCreated(ctx context.Context, student *models.Student) int {
	courses, err := s.courseRepo.ListByTutorAndType(ctx, student.CreatedBy, models.CourseTypeDemo)
	if err != nil {
		logger.Error().Err(err).
			Int64("studentID", student.ID).
			Int64("tutorID", student.CreatedBy).
			Msg("Auto-enrollment skipped: could not list tutor's demo courses")
		return 0
	}

	created := 0
	for _, course := range courses {
		if s.ensureEnrolled(ctx, student.ID, course.ID) {
			created++
		}
	}

	logger.Info().
		Int64("studentID", student.ID).
		Int("courses", len(courses)).
		Int("created", created).
		Msg("Auto-enrolled new student into demo courses")
	return created
}

// ensureEnrolled applies the create-if-absent rule for one pair. An already
// existing row, including one from a racing insert, counts as success.
func (s *enrollmentSyncerImpl) ensureEnrolled(ctx context.Context, studentID, courseID int64) bool {
	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    models.EnrollmentActive,
	}

	created, err := s.enrollmentRepo.CreateIfAbsent(ctx, enrollment)
	if err != nil {
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("courseID", courseID).
			Msg("Auto-enrollment failed for pair")
		return false
	}

	return created
}
