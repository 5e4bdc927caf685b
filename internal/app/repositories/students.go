package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/db"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
	"github.com/rulingo/backoffice/internal/pkg/dberrors"
	"github.com/rulingo/backoffice/internal/pkg/logger"
)

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StudentRepository) studentSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"p.id", "p.account_id", "p.created_by", "p.created_at",
		"a.id", "a.username", "a.email", "a.first_name", "a.last_name", "a.is_privileged",
	).
		From("profiles p").
		Join("accounts a ON a.id = p.account_id").
		Where(squirrel.Eq{"p.role": models.RoleStudent}).
		OrderBy("p.created_at DESC")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	var account models.Account
	err := row.Scan(
		&student.ID, &student.AccountID, &student.CreatedBy, &student.CreatedAt,
		&account.ID, &account.Username, &account.Email, &account.FirstName, &account.LastName, &account.IsPrivileged,
	)
	if err != nil {
		return nil, err
	}
	student.Account = &account
	return &student, nil
}

// CreateWithAccount persists the backing account and the student profile in
// one transaction. If the profile insert fails the account insert rolls back
// with it, so a rejected student never leaves an orphaned account behind.
func (r *StudentRepository) CreateWithAccount(ctx context.Context, account *models.Account, student *models.Student) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		accountID, err := insertAccount(ctx, tx, r.sb, account)
		if err != nil {
			return err
		}
		student.AccountID = accountID

		sql, args, err := r.sb.Insert("profiles").
			Columns("account_id", "role", "created_by").
			Values(student.AccountID, models.RoleStudent, student.CreatedBy).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "profiles_account_id_key") {
				return apperrors.ErrRoleConflict
			}
			return fmt.Errorf("error creating student: %w", err)
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUsernameAlreadyTaken),
			errors.Is(err, apperrors.ErrEmailAlreadyExists),
			errors.Is(err, apperrors.ErrRoleConflict):
			// expected policy failures, caller reports them
		default:
			logger.Error().Err(err).Str("username", account.Username).Msg("Error creating student with account")
		}
		return err
	}

	student.Account = account
	logger.Info().
		Int64("studentID", student.ID).
		Int64("tutorID", student.CreatedBy).
		Str("username", account.Username).
		Msg("Student created successfully")
	return nil
}

// GetByID retrieves a student by ID within the given scope
func (r *StudentRepository) GetByID(ctx context.Context, id int64, scope models.Scope) (*models.Student, error) {
	if scope.None() {
		return nil, apperrors.ErrStudentNotFound
	}

	query := r.studentSelect().Where(squirrel.Eq{"p.id": id})
	if tutorID, ok := scope.Tutor(); ok {
		query = query.Where(squirrel.Eq{"p.created_by": tutorID})
	}

	sql, args, err := query.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByAccountID retrieves the student profile backed by an account
func (r *StudentRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	sql, args, err := r.studentSelect().
		Where(squirrel.Eq{"p.account_id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("accountID", accountID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// List returns the students visible within the given scope
func (r *StudentRepository) List(ctx context.Context, scope models.Scope) ([]*models.Student, error) {
	if scope.None() {
		return []*models.Student{}, nil
	}

	query := r.studentSelect()
	if tutorID, ok := scope.Tutor(); ok {
		query = query.Where(squirrel.Eq{"p.created_by": tutorID})
	}

	return r.queryStudents(ctx, query)
}

// ListByTutor returns all students created by the given tutor regardless of
// actor scope; the auto-enrollment engine uses it after ownership is settled.
func (r *StudentRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*models.Student, error) {
	return r.queryStudents(ctx, r.studentSelect().Where(squirrel.Eq{"p.created_by": tutorID}))
}

func (r *StudentRepository) queryStudents(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// CountByTutor counts the students created by a tutor
func (r *StudentRepository) CountByTutor(ctx context.Context, tutorID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("profiles").
		Where(squirrel.Eq{"role": models.RoleStudent, "created_by": tutorID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}

	return count, nil
}
