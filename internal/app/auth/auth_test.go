package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/repositories/inmem"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

func seedAccount(t *testing.T, store *inmem.Store, username string, privileged bool) *models.Account {
	t.Helper()
	account := &models.Account{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "secret4",
		IsPrivileged: privileged,
	}
	if _, err := store.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func seedTutor(t *testing.T, store *inmem.Store, accountID int64) *models.Tutor {
	t.Helper()
	tutor := &models.Tutor{AccountID: accountID}
	if _, err := store.Tutors().Create(context.Background(), tutor); err != nil {
		t.Fatalf("create tutor: %v", err)
	}
	return tutor
}

func TestActorScope(t *testing.T) {
	tutor := &models.Tutor{ID: 7}

	tests := []struct {
		name  string
		actor Actor
		check func(t *testing.T, scope models.Scope)
	}{
		{
			name:  "privileged sees all",
			actor: Actor{Account: &models.Account{IsPrivileged: true}},
			check: func(t *testing.T, scope models.Scope) {
				if !scope.All() {
					t.Errorf("scope not unrestricted")
				}
			},
		},
		{
			name:  "privileged tutor still sees all",
			actor: Actor{Account: &models.Account{IsPrivileged: true}, Tutor: tutor},
			check: func(t *testing.T, scope models.Scope) {
				if !scope.All() {
					t.Errorf("scope not unrestricted")
				}
			},
		},
		{
			name:  "tutor sees own slice",
			actor: Actor{Account: &models.Account{}, Tutor: tutor},
			check: func(t *testing.T, scope models.Scope) {
				id, ok := scope.Tutor()
				if !ok || id != 7 {
					t.Errorf("scope = (%d, %v), want (7, true)", id, ok)
				}
			},
		},
		{
			name:  "plain account sees nothing",
			actor: Actor{Account: &models.Account{}},
			check: func(t *testing.T, scope models.Scope) {
				if !scope.None() {
					t.Errorf("scope not fail-closed")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.actor.Scope())
		})
	}
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	resolver := NewResolver(store.Accounts(), store.Tutors())

	tutorAccount := seedAccount(t, store, "resolved", false)
	tutor := seedTutor(t, store, tutorAccount.ID)
	plainAccount := seedAccount(t, store, "plain", false)

	t.Run("tutor account", func(t *testing.T) {
		actor, err := resolver.ResolveByAccountID(ctx, tutorAccount.ID)
		if err != nil {
			t.Fatalf("ResolveByAccountID: %v", err)
		}
		if actor.Tutor == nil || actor.Tutor.ID != tutor.ID {
			t.Errorf("tutor profile not attached")
		}
	})

	t.Run("plain account", func(t *testing.T) {
		actor, err := resolver.ResolveByUsername(ctx, "plain")
		if err != nil {
			t.Fatalf("ResolveByUsername: %v", err)
		}
		if actor.Account.ID != plainAccount.ID {
			t.Errorf("wrong account resolved")
		}
		if actor.Tutor != nil {
			t.Errorf("unexpected tutor profile")
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		if _, err := resolver.ResolveByAccountID(ctx, 999); !errors.Is(err, apperrors.ErrAccountNotFound) {
			t.Fatalf("err = %v, want ErrAccountNotFound", err)
		}
	})
}

func TestRoleGuard(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	guard := NewRoleGuard(store.Profiles())

	tutorAccount := seedAccount(t, store, "guardtutor", false)
	seedTutor(t, store, tutorAccount.ID)
	freeAccount := seedAccount(t, store, "guardfree", false)

	t.Run("new role on free account", func(t *testing.T) {
		if err := guard.ValidateNewRole(ctx, freeAccount.ID); err != nil {
			t.Fatalf("ValidateNewRole: %v", err)
		}
	})

	t.Run("new role on occupied account", func(t *testing.T) {
		err := guard.ValidateNewRole(ctx, tutorAccount.ID)
		if !errors.Is(err, apperrors.ErrRoleConflict) {
			t.Fatalf("err = %v, want ErrRoleConflict", err)
		}
	})

	t.Run("revalidate matching role", func(t *testing.T) {
		if err := guard.RevalidateRole(ctx, tutorAccount.ID, models.RoleTutor); err != nil {
			t.Fatalf("RevalidateRole: %v", err)
		}
	})

	t.Run("revalidate mismatched role", func(t *testing.T) {
		err := guard.RevalidateRole(ctx, tutorAccount.ID, models.RoleStudent)
		if !errors.Is(err, apperrors.ErrRoleConflict) {
			t.Fatalf("err = %v, want ErrRoleConflict", err)
		}
	})
}
