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
	"github.com/rulingo/backoffice/internal/pkg/dberrors"
	"github.com/rulingo/backoffice/internal/pkg/logger"
)

// TutorRepository handles tutor database operations
type TutorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTutorRepository creates a new TutorRepository
func NewTutorRepository(db *pgxpool.Pool) *TutorRepository {
	return &TutorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// tutorSelect joins profiles with their backing accounts; callers add scope
// and identity predicates on top.
func (r *TutorRepository) tutorSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"p.id", "p.account_id", "p.bio", "p.experience_years", "p.created_at",
		"a.id", "a.username", "a.email", "a.first_name", "a.last_name", "a.is_privileged",
	).
		From("profiles p").
		Join("accounts a ON a.id = p.account_id").
		Where(squirrel.Eq{"p.role": models.RoleTutor}).
		OrderBy("p.created_at DESC")
}

func scanTutor(row pgx.Row) (*models.Tutor, error) {
	var tutor models.Tutor
	var account models.Account
	err := row.Scan(
		&tutor.ID, &tutor.AccountID, &tutor.Bio, &tutor.ExperienceYears, &tutor.CreatedAt,
		&account.ID, &account.Username, &account.Email, &account.FirstName, &account.LastName, &account.IsPrivileged,
	)
	if err != nil {
		return nil, err
	}
	tutor.Account = &account
	return &tutor, nil
}

// insertTutor runs the tutor profile insert on the given querier.
func insertTutor(ctx context.Context, q Querier, sb squirrel.StatementBuilderType, tutor *models.Tutor) (int64, error) {
	sql, args, err := sb.Insert("profiles").
		Columns("account_id", "role", "bio", "experience_years").
		Values(tutor.AccountID, models.RoleTutor, tutor.Bio, tutor.ExperienceYears).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create tutor query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&tutor.ID, &tutor.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "profiles_account_id_key") {
			return 0, apperrors.ErrRoleConflict
		}
		return 0, fmt.Errorf("error creating tutor: %w", err)
	}

	return tutor.ID, nil
}

// Create creates a new tutor profile. A second profile row for the same
// account is rejected by the account uniqueness constraint.
func (r *TutorRepository) Create(ctx context.Context, tutor *models.Tutor) (int64, error) {
	id, err := insertTutor(ctx, r.db, r.sb, tutor)
	if err != nil {
		if !errors.Is(err, apperrors.ErrRoleConflict) {
			logger.Error().Err(err).Int64("accountID", tutor.AccountID).Msg("Error executing create tutor query")
		}
		return 0, err
	}

	logger.Info().Int64("tutorID", id).Int64("accountID", tutor.AccountID).Msg("Tutor created successfully")
	return id, nil
}

// GetByID retrieves a tutor by ID within the given scope. An out-of-scope id
// reads as not found.
func (r *TutorRepository) GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Tutor, error) {
	if scope.None() {
		return nil, apperrors.ErrTutorNotFound
	}

	query := r.tutorSelect().Where(squirrel.Eq{"p.id": id})
	if tutorID, ok := scope.Tutor(); ok {
		query = query.Where(squirrel.Eq{"p.id": tutorID})
	}

	sql, args, err := query.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get tutor query: %w", err)
	}

	tutor, err := scanTutor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTutorNotFound
		}
		logger.Error().Err(err).Int64("tutorID", id).Msg("Error scanning tutor row")
		return nil, fmt.Errorf("error retrieving tutor: %w", err)
	}

	return tutor, nil
}

// GetByAccountID retrieves the tutor profile backed by an account
func (r *TutorRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Tutor, error) {
	sql, args, err := r.tutorSelect().
		Where(squirrel.Eq{"p.account_id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get tutor query: %w", err)
	}

	tutor, err := scanTutor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTutorNotFound
		}
		logger.Error().Err(err).Int64("accountID", accountID).Msg("Error scanning tutor row")
		return nil, fmt.Errorf("error retrieving tutor: %w", err)
	}

	return tutor, nil
}

// List returns the tutors visible within the given scope
func (r *TutorRepository) List(ctx context.Context, scope models.Scope) ([]*models.Tutor, error) {
	if scope.None() {
		return []*models.Tutor{}, nil
	}

	query := r.tutorSelect()
	if tutorID, ok := scope.Tutor(); ok {
		query = query.Where(squirrel.Eq{"p.id": tutorID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list tutors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list tutors query")
		return nil, fmt.Errorf("error listing tutors: %w", err)
	}
	defer rows.Close()

	tutors := []*models.Tutor{}
	for rows.Next() {
		tutor, err := scanTutor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning tutor row: %w", err)
		}
		tutors = append(tutors, tutor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tutor rows: %w", err)
	}

	return tutors, nil
}

// Update updates a tutor's mutable fields (bio, years of experience)
func (r *TutorRepository) Update(ctx context.Context, tutor *models.Tutor) error {
	sql, args, err := r.sb.Update("profiles").
		Set("bio", tutor.Bio).
		Set("experience_years", tutor.ExperienceYears).
		Where(squirrel.Eq{"id": tutor.ID, "role": models.RoleTutor}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update tutor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("tutorID", tutor.ID).Msg("Error executing update tutor query")
		return fmt.Errorf("error updating tutor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTutorNotFound
	}

	return nil
}

// Delete removes a tutor profile. Students referencing the tutor block the
// delete (protect semantics); owned courses cascade away with the profile row.
func (r *TutorRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("profiles").
		Where(squirrel.Eq{"id": id, "role": models.RoleTutor}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete tutor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsRestrictViolation(err, "profiles_created_by_fkey") {
			logger.Warn().Int64("tutorID", id).Msg("Attempted to delete a tutor that still has students")
			return apperrors.ErrTutorHasStudents
		}
		logger.Error().Err(err).Int64("tutorID", id).Msg("Error executing delete tutor query")
		return fmt.Errorf("error deleting tutor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTutorNotFound
	}

	logger.Info().Int64("tutorID", id).Msg("Tutor deleted successfully")
	return nil
}
