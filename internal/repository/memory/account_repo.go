package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bank_ledger/internal/domain"
	"bank_ledger/internal/repository"
)

type AccountRegistry struct {
	mu         sync.RWMutex
	accounts   map[int]*domain.Account
	ownerIndex map[string][]int
	nextBranch int
}

func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{
		accounts:   make(map[int]*domain.Account),
		ownerIndex: make(map[string][]int),
	}
}

func (r *AccountRegistry) Save(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.Number]; exists {
		return fmt.Errorf("%w: account %d", repository.ErrDuplicate, account.Number)
	}

	r.accounts[account.Number] = account
	r.ownerIndex[account.OwnerID] = append(r.ownerIndex[account.OwnerID], account.Number)

	return nil
}

func (r *AccountRegistry) GetByNumber(ctx context.Context, number int) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[number]
	if !exists {
		return nil, fmt.Errorf("%w: account %d", repository.ErrNotFound, number)
	}
	return account, nil
}

func (r *AccountRegistry) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers, exists := r.ownerIndex[ownerID]
	if !exists {
		return nil, fmt.Errorf("%w: customer %s", repository.ErrNotFound, ownerID)
	}

	var result []*domain.Account
	for _, number := range numbers {
		if account, exists := r.accounts[number]; exists {
			result = append(result, account)
		}
	}

	return result, nil
}

func (r *AccountRegistry) GetAll(ctx context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		result = append(result, account)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Number < result[j].Number
	})

	return result, nil
}

func (r *AccountRegistry) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts), nil
}

// NextBranchCode consumes the next branch code. Callers must only invoke it
// once the rest of the opening workflow is guaranteed to succeed, so a failed
// open never burns a code.
func (r *AccountRegistry) NextBranchCode(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextBranch++
	return fmt.Sprintf("%04d", r.nextBranch), nil
}

func (r *AccountRegistry) Update(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.Number]; !exists {
		return fmt.Errorf("%w: account %d", repository.ErrNotFound, account.Number)
	}

	r.accounts[account.Number] = account

	return nil
}
