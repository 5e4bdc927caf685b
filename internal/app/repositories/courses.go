package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
	"github.com/rulingo/backoffice/internal/pkg/logger"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var courseColumns = []string{
	"id", "tutor_id", "title", "description", "course_type", "created_at", "updated_at",
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID, &course.TutorID, &course.Title, &course.Description,
		&course.Type, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("tutor_id", "title", "description", "course_type").
		Values(course.TutorID, course.Title, course.Description, course.Type).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("tutorID", course.TutorID).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	logger.Info().
		Int64("courseID", course.ID).
		Int64("tutorID", course.TutorID).
		Str("courseType", string(course.Type)).
		Msg("Course created successfully")
	return course.ID, nil
}

// GetByID retrieves a course by ID within the given scope
func (r *CourseRepository) GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Course, error) {
	if scope.None() {
		return nil, apperrors.ErrCourseNotFound
	}

	query := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id})
	if tutorID, ok := scope.Tutor(); ok {
		query = query.Where(squirrel.Eq{"tutor_id": tutorID})
	}

	sql, args, err := query.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// List returns the courses visible within the given scope
func (r *CourseRepository) List(ctx context.Context, scope models.Scope) ([]*models.Course, error) {
	if scope.None() {
		return []*models.Course{}, nil
	}

	query := r.sb.Select(courseColumns...).
		From("courses").
		OrderBy("created_at DESC")
	if tutorID, ok := scope.Tutor(); ok {
		query = query.Where(squirrel.Eq{"tutor_id": tutorID})
	}

	return r.queryCourses(ctx, query)
}

// ListByTutorAndType returns a tutor's courses of one type; the
// auto-enrollment engine uses it to find a tutor's demo courses.
func (r *CourseRepository) ListByTutorAndType(ctx context.Context, tutorID int64, courseType models.CourseType) ([]*models.Course, error) {
	query := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"tutor_id": tutorID, "course_type": courseType}).
		OrderBy("created_at DESC")

	return r.queryCourses(ctx, query)
}

func (r *CourseRepository) queryCourses(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Course, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Update updates a course's title and description and refreshes its updated
// timestamp. The course type is locked after creation and never written here.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("title", course.Title).
		Set("description", course.Description).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course; its enrollments cascade away with it
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	logger.Info().Int64("courseID", id).Msg("Course deleted successfully")
	return nil
}
