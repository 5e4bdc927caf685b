package inmem

import (
	"context"

	"github.com/rulingo/backoffice/internal/app/models"
)

// ProfileDirectory answers role lookups against the in-memory profile rows.
type ProfileDirectory struct {
	store *Store
}

func (d *ProfileDirectory) RoleForAccount(ctx context.Context, accountID int64) (models.Role, bool, error) {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.profileAccountRole(accountID)
	return role, ok, nil
}
