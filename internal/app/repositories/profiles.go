package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rulingo/backoffice/internal/app/models"
)

// ProfileDirectory answers role lookups against the discriminated profiles
// table. The role-exclusivity invariant reduces to "at most one row per
// account", so a single query replaces probing both role tables.
type ProfileDirectory struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileDirectory creates a new ProfileDirectory
func NewProfileDirectory(db *pgxpool.Pool) *ProfileDirectory {
	return &ProfileDirectory{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// RoleForAccount returns the role the account currently holds, if any.
func (d *ProfileDirectory) RoleForAccount(ctx context.Context, accountID int64) (models.Role, bool, error) {
	sql, args, err := d.sb.Select("role").
		From("profiles").
		Where(squirrel.Eq{"account_id": accountID}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("failed to build role lookup query: %w", err)
	}

	var role models.Role
	err = d.db.QueryRow(ctx, sql, args...).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error looking up account role: %w", err)
	}

	return role, true, nil
}
