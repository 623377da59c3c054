package repository

import (
	"context"
	"errors"

	"bank_ledger/internal/domain"
)

// CustomerRegistry is the in-memory directory of customers, keyed by their
// unique identifier.
type CustomerRegistry interface {
	Save(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetAll(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

// AccountRegistry is the in-memory directory of accounts. It owns the
// branch-code counter: codes are handed out sequentially across every account
// ever opened in the process, formatted as zero-padded 4-digit strings.
type AccountRegistry interface {
	Save(ctx context.Context, account *domain.Account) error
	GetByNumber(ctx context.Context, number int) (*domain.Account, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	GetAll(ctx context.Context) ([]*domain.Account, error)
	Count(ctx context.Context) (int, error)
	NextBranchCode(ctx context.Context) (string, error)
	Update(ctx context.Context, account *domain.Account) error
}

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)
