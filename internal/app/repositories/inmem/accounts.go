package inmem

import (
	"context"

	"github.com/rulingo/backoffice/internal/app/models"
	"github.com/rulingo/backoffice/internal/pkg/apperrors"
)

// AccountRepository is the in-memory account table.
type AccountRepository struct {
	store *Store
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertAccountLocked(account)
}

// insertAccountLocked mirrors the unique checks of the accounts table. Must be
// called with the lock held.
func (s *Store) insertAccountLocked(account *models.Account) (int64, error) {
	for _, existing := range s.accounts {
		if existing.Username == account.Username {
			return 0, apperrors.ErrUsernameAlreadyTaken
		}
		if existing.Email == account.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}

	s.accountSeq++
	account.ID = s.accountSeq
	account.CreatedAt = s.now()
	account.UpdatedAt = account.CreatedAt
	s.accounts[account.ID] = cloneAccount(account)
	return account.ID, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Username == username {
			return cloneAccount(account), nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *AccountRepository) EmailExistsExcept(ctx context.Context, email string, accountID int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Email == email && account.ID != accountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *AccountRepository) UpdateInfo(ctx context.Context, accountID int64, firstName, lastName, email string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	account.FirstName = firstName
	account.LastName = lastName
	account.Email = email
	account.UpdatedAt = s.now()
	return nil
}
