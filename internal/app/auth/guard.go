package auth

import (
	"context"
	"fmt"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/repositories"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

// RoleGuard enforces that an account backs at most one of Tutor and Student.
// The profiles table's account uniqueness constraint is the hard backstop;
// the guard runs explicitly on every persistence path so violations surface
// as policy errors rather than raw constraint failures.
type RoleGuard struct {
	directory repositories.IProfileDirectory
}

// NewRoleGuard creates a new RoleGuard
func NewRoleGuard(directory repositories.IProfileDirectory) *RoleGuard {
	return &RoleGuard{directory: directory}
}

// ValidateNewRole checks that the account holds no role yet. It runs before
// creating either profile kind.
func (g *RoleGuard) ValidateNewRole(ctx context.Context, accountID int64) error {
	role, held, err := g.directory.RoleForAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error checking account role: %w", err)
	}
	if held {
		return apperrors.NewRoleConflictError(
			fmt.Sprintf("this account is already a %s", roleLabel(role)))
	}
	return nil
}

// RevalidateRole checks an existing profile on edit: the account must still
// hold exactly the expected role. It runs on every save, not only the first,
// for both roles alike.
func (g *RoleGuard) RevalidateRole(ctx context.Context, accountID int64, expected models.Role) error {
	role, held, err := g.directory.RoleForAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error checking account role: %w", err)
	}
	if held && role != expected {
		return apperrors.NewRoleConflictError(
			fmt.Sprintf("this account is already a %s", roleLabel(role)))
	}
	return nil
}

func roleLabel(role models.Role) string {
	switch role {
	case models.RoleTutor:
		return "Tutor"
	case models.RoleStudent:
		return "Student"
	default:
		return string(role)
	}
}
