package bank

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bank_ledger/internal/domain"
	"bank_ledger/internal/repository"
)

// Service owns the account-opening workflow and the apply-and-log step that
// couples a balance mutation with its transaction record. A transaction is
// appended to the account's log only when the mutation succeeded; a failure
// is an atomic no-op.
type Service struct {
	customers repository.CustomerRegistry
	accounts  repository.AccountRegistry

	ceiling  decimal.Decimal
	maxDaily int

	mu       sync.RWMutex
	counters map[string]int

	logger *slog.Logger
}

func NewService(
	customers repository.CustomerRegistry,
	accounts repository.AccountRegistry,
	ceiling decimal.Decimal,
	maxDaily int,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		customers: customers,
		accounts:  accounts,
		ceiling:   ceiling,
		maxDaily:  maxDaily,
		counters:  make(map[string]int),
		logger:    logger,
	}
}

func (s *Service) RegisterCustomer(ctx context.Context, id, name string, birthDate time.Time, address string) (*domain.Customer, error) {
	customer := domain.NewCustomer(id, name, birthDate, address)

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.recordCounter("customers_registered", 1)
	s.logger.InfoContext(ctx, "Customer registered",
		slog.String("customer_id", id),
		slog.String("name", name))

	return customer, nil
}

func (s *Service) FindCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// OpenAccount looks up the customer and, only when found, allocates the next
// sequential account number and branch code, builds a checking account with
// the configured limits, and links it to both directories. A failed open
// consumes neither a number nor a branch code.
func (s *Service) OpenAccount(ctx context.Context, customerID string) (*domain.Account, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	count, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, err
	}
	number := count + 1

	branch, err := s.accounts.NextBranchCode(ctx)
	if err != nil {
		return nil, err
	}

	account := domain.NewCheckingAccount(number, branch, customer.ID, s.ceiling, s.maxDaily)
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	customer.AddAccount(number)
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to link account to customer: %w", err)
	}

	s.recordCounter("accounts_opened", 1)
	s.logger.InfoContext(ctx, "Account opened",
		slog.Int("number", number),
		slog.String("branch", branch),
		slog.String("customer_id", customer.ID))

	return account, nil
}

func (s *Service) FindAccount(ctx context.Context, number int) (*domain.Account, error) {
	return s.accounts.GetByNumber(ctx, number)
}

func (s *Service) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.GetAll(ctx)
}

func (s *Service) CustomerAccounts(ctx context.Context, customerID string) ([]*domain.Account, error) {
	return s.accounts.GetByOwner(ctx, customerID)
}

func (s *Service) Deposit(ctx context.Context, number int, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.apply(ctx, number, domain.KindDeposit, amount)
}

func (s *Service) Withdraw(ctx context.Context, number int, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.apply(ctx, number, domain.KindWithdrawal, amount)
}

func (s *Service) Statement(ctx context.Context, number int) (*domain.Statement, error) {
	account, err := s.accounts.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	statement := account.Statement()
	return &statement, nil
}

// apply is the transaction-application step: it invokes the account operation
// and records the transaction only on success.
func (s *Service) apply(ctx context.Context, number int, kind domain.TransactionKind, amount decimal.Decimal) (*domain.Transaction, error) {
	account, err := s.accounts.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.KindDeposit:
		err = account.Deposit(amount)
	case domain.KindWithdrawal:
		err = account.Withdraw(amount)
	default:
		return nil, fmt.Errorf("unknown transaction kind: %s", kind)
	}

	if err != nil {
		s.recordCounter("transactions_rejected", 1)
		s.logger.WarnContext(ctx, "Transaction rejected",
			slog.Int("account", number),
			slog.String("kind", string(kind)),
			slog.String("amount", amount.String()),
			slog.String("reason", err.Error()))
		return nil, err
	}

	tx := domain.NewTransaction(kind, amount)
	account.Record(tx)

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.recordCounter("transactions_processed", 1)
	s.logger.InfoContext(ctx, "Transaction committed",
		slog.Int("account", number),
		slog.String("kind", string(kind)),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("balance", account.Balance.StringFixed(2)))

	return &tx, nil
}

func (s *Service) Counters() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}

func (s *Service) recordCounter(key string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key] += value
}
