package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
	"github.com/rulingo/backoffice/internal/pkg/dberrors"
	"github.com/rulingo/backoffice/internal/pkg/logger"
)

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// enrollmentSelect joins the owning course so scope filtering on the course's
// tutor works on every read path.
func (r *EnrollmentRepository) enrollmentSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"e.id", "e.student_id", "e.course_id", "e.status",
		"e.enrolled_at", "e.completed_at", "e.updated_at",
	).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		OrderBy("e.enrolled_at DESC")
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := row.Scan(
		&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID, &enrollment.Status,
		&enrollment.EnrolledAt, &enrollment.CompletedAt, &enrollment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// CreateIfAbsent inserts the enrollment unless one already exists for the
// (student, course) pair. A unique violation from a racing insert reports
// created=false exactly like a pre-existing row; the store constraint is the
// authoritative duplicate check.
func (r *EnrollmentRepository) CreateIfAbsent(ctx context.Context, enrollment *models.Enrollment) (bool, error) {
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentActive
	}

	sql, args, err := r.sb.Insert("enrollments").
		Columns("student_id", "course_id", "status").
		Values(enrollment.StudentID, enrollment.CourseID, enrollment.Status).
		Suffix("RETURNING id, enrolled_at, updated_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&enrollment.ID, &enrollment.EnrolledAt, &enrollment.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			existing, getErr := r.GetByPair(ctx, enrollment.StudentID, enrollment.CourseID)
			if getErr != nil {
				return false, getErr
			}
			*enrollment = *existing
			return false, nil
		}
		logger.Error().Err(err).
			Int64("studentID", enrollment.StudentID).
			Int64("courseID", enrollment.CourseID).
			Msg("Error executing create enrollment query")
		return false, fmt.Errorf("error creating enrollment: %w", err)
	}

	logger.Info().
		Int64("enrollmentID", enrollment.ID).
		Int64("studentID", enrollment.StudentID).
		Int64("courseID", enrollment.CourseID).
		Msg("Enrollment created successfully")
	return true, nil
}

// GetByID retrieves an enrollment by ID within the given scope
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Enrollment, error) {
	if scope.None() {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	query := r.enrollmentSelect().Where(squirrel.Eq{"e.id": id})
	if tutorID, ok := scope.Tutor(); ok {
		query = query.Where(squirrel.Eq{"c.tutor_id": tutorID})
	}

	sql, args, err := query.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return enrollment, nil
}

// GetByPair retrieves the enrollment for a (student, course) pair
func (r *EnrollmentRepository) GetByPair(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	sql, args, err := r.enrollmentSelect().
		Where(squirrel.Eq{"e.student_id": studentID, "e.course_id": courseID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("courseID", courseID).
			Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return enrollment, nil
}

// List returns the enrollments visible within the given scope. Visibility
// follows the owning tutor of the enrollment's course.
func (r *EnrollmentRepository) List(ctx context.Context, scope models.Scope) ([]*models.Enrollment, error) {
	if scope.None() {
		return []*models.Enrollment{}, nil
	}

	query := r.enrollmentSelect()
	if tutorID, ok := scope.Tutor(); ok {
		query = query.Where(squirrel.Eq{"c.tutor_id": tutorID})
	}

	return r.queryEnrollments(ctx, query)
}

// ListByCourse returns all enrollments for one course
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	return r.queryEnrollments(ctx, r.enrollmentSelect().Where(squirrel.Eq{"e.course_id": courseID}))
}

func (r *EnrollmentRepository) queryEnrollments(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Enrollment, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list enrollments query")
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// UpdateStatus transitions an enrollment's status, stamping or clearing the
// completion time, and refreshes the updated timestamp.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus, completedAt *time.Time) error {
	sql, args, err := r.sb.Update("enrollments").
		Set("status", status).
		Set("completed_at", completedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update enrollment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error executing update enrollment query")
		return fmt.Errorf("error updating enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}
