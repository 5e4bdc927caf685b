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

// AccountRepository handles account database operations
type AccountRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var accountColumns = []string{
	"id", "username", "email", "password", "first_name", "last_name",
	"is_privileged", "created_at", "updated_at",
}

// insertAccount runs the account insert on the given querier so the same
// statement serves both standalone creation and the compound student path.
func insertAccount(ctx context.Context, q Querier, sb squirrel.StatementBuilderType, account *models.Account) (int64, error) {
	sql, args, err := sb.Insert("accounts").
		Columns("username", "email", "password", "first_name", "last_name", "is_privileged").
		Values(account.Username, account.Email, account.Password, account.FirstName, account.LastName, account.IsPrivileged).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create account query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "accounts_username_key") {
			return 0, apperrors.ErrUsernameAlreadyTaken
		}
		if dberrors.IsDuplicateConstraintError(err, "accounts_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating account: %w", err)
	}

	return account.ID, nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (int64, error) {
	id, err := insertAccount(ctx, r.db, r.sb, account)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUsernameAlreadyTaken) && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			logger.Error().Err(err).Str("username", account.Username).Msg("Error executing create account query")
		}
		return 0, err
	}

	logger.Info().Int64("accountID", id).Str("username", account.Username).Msg("Account created successfully")
	return id, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	sql, args, err := r.sb.Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}

	return r.scanAccount(ctx, sql, args)
}

// GetByUsername retrieves an account by username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	sql, args, err := r.sb.Select(accountColumns...).
		From("accounts").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}

	return r.scanAccount(ctx, sql, args)
}

func (r *AccountRepository) scanAccount(ctx context.Context, sql string, args []interface{}) (*models.Account, error) {
	var account models.Account
	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&account.ID, &account.Username, &account.Email, &account.Password,
		&account.FirstName, &account.LastName, &account.IsPrivileged,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		logger.Error().Err(err).Msg("Error scanning account row")
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}

	return &account, nil
}

// UsernameExists checks if a username is already taken
func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"username": username})
}

// EmailExists checks if an email is already registered
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

// EmailExistsExcept checks if another account already uses the email
func (r *AccountRepository) EmailExistsExcept(ctx context.Context, email string, accountID int64) (bool, error) {
	return r.exists(ctx, squirrel.And{
		squirrel.Eq{"email": email},
		squirrel.NotEq{"id": accountID},
	})
}

func (r *AccountRepository) exists(ctx context.Context, pred interface{}) (bool, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("accounts").
		Where(pred).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build account exists query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking account existence")
		return false, fmt.Errorf("error checking account existence: %w", err)
	}

	return exists, nil
}

// UpdateInfo updates an account's basic identity fields and refreshes its
// updated timestamp.
func (r *AccountRepository) UpdateInfo(ctx context.Context, accountID int64, firstName, lastName, email string) error {
	sql, args, err := r.sb.Update("accounts").
		Set("first_name", firstName).
		Set("last_name", lastName).
		Set("email", email).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update account query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "accounts_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("accountID", accountID).Msg("Error executing update account query")
		return fmt.Errorf("error updating account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}
