package auth

import (
	"context"
	"errors"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/app/repositories"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

// Actor is a resolved caller: the backing account plus the tutor profile, if
// the account holds one. Everything the access rules need is carried here so
// services never re-query identity mid-operation.
type Actor struct {
	Account *models.Account
	Tutor   *models.Tutor
}

// IsPrivileged reports whether the actor bypasses ownership scoping.
func (a Actor) IsPrivileged() bool {
	return a.Account != nil && a.Account.IsPrivileged
}

// IsTutor reports whether the actor has a tutor profile.
func (a Actor) IsTutor() bool {
	return a.Tutor != nil
}

// Scope derives the visibility scope: privileged actors see everything, tutor
// actors see their own slice, everyone else sees nothing.
func (a Actor) Scope() models.Scope {
	if a.IsPrivileged() {
		return models.ScopeAll()
	}
	if a.Tutor != nil {
		return models.ScopeTutor(a.Tutor.ID)
	}
	return models.ScopeNone()
}

// Resolver builds Actors from account references.
type Resolver struct {
	accountRepo repositories.IAccountRepository
	tutorRepo   repositories.ITutorRepository
}

// NewResolver creates a new Resolver
func NewResolver(accountRepo repositories.IAccountRepository, tutorRepo repositories.ITutorRepository) *Resolver {
	return &Resolver{
		accountRepo: accountRepo,
		tutorRepo:   tutorRepo,
	}
}

// ResolveByAccountID resolves the actor for an account id.
func (r *Resolver) ResolveByAccountID(ctx context.Context, accountID int64) (Actor, error) {
	account, err := r.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return Actor{}, err
	}
	return r.attachTutor(ctx, account)
}

// ResolveByUsername resolves the actor for a username.
func (r *Resolver) ResolveByUsername(ctx context.Context, username string) (Actor, error) {
	account, err := r.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return Actor{}, err
	}
	return r.attachTutor(ctx, account)
}

func (r *Resolver) attachTutor(ctx context.Context, account *models.Account) (Actor, error) {
	actor := Actor{Account: account}

	tutor, err := r.tutorRepo.GetByAccountID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTutorNotFound) {
			return actor, nil
		}
		return Actor{}, err
	}

	actor.Tutor = tutor
	return actor, nil
}
