package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the balance and transaction log for a single customer account.
// Withdraw and Deposit only validate and mutate the balance; committing the
// matching Transaction to the log is the caller's responsibility, so that a
// failed mutation never leaves a log entry behind.
type Account struct {
	Number    int             `json:"number"`
	Branch    string          `json:"branch"`
	OwnerID   string          `json:"owner_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`

	policy WithdrawalPolicy
	log    []Transaction
}

func NewAccount(number int, branch, ownerID string) *Account {
	return &Account{
		Number:    number,
		Branch:    branch,
		OwnerID:   ownerID,
		Balance:   decimal.Zero,
		CreatedAt: time.Now(),
	}
}

// NewCheckingAccount builds an account governed by the checking withdrawal
// policy: a per-withdrawal ceiling and a daily withdrawal count limit.
func NewCheckingAccount(number int, branch, ownerID string, ceiling decimal.Decimal, maxDaily int) *Account {
	a := NewAccount(number, branch, ownerID)
	a.policy = CheckingPolicy(ceiling, maxDaily)
	return a
}

// Deposit increases the balance. Amounts <= 0 are rejected with ErrInvalidAmount.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw decreases the balance. The account's withdrawal policy runs first
// (daily count before ceiling), then the base checks: ErrInvalidAmount for
// amounts <= 0, ErrInsufficientBalance when the amount exceeds the balance.
// The balance never goes negative.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := a.policy.Check(a, amount); err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Record appends a committed transaction to the account's log. The log is
// append-only; entries keep insertion order, which equals chronological order.
func (a *Account) Record(tx Transaction) {
	a.log = append(a.log, tx)
}

// Transactions returns a copy of the log so callers can re-read it freely
// without being able to touch the account's internal state.
func (a *Account) Transactions() []Transaction {
	out := make([]Transaction, len(a.log))
	copy(out, a.log)
	return out
}

// WithdrawalsOn counts committed withdrawals on the given calendar day.
// Deposits never count toward the daily withdrawal limit.
func (a *Account) WithdrawalsOn(day time.Time) int {
	var n int
	for _, tx := range a.log {
		if tx.Kind == KindWithdrawal && tx.SameDay(day) {
			n++
		}
	}
	return n
}

// Statement is a re-readable snapshot of an account's transaction history
// in chronological order plus its current balance.
type Statement struct {
	AccountNumber int             `json:"account_number"`
	Branch        string          `json:"branch"`
	Entries       []Transaction   `json:"entries"`
	Balance       decimal.Decimal `json:"balance"`
}

func (a *Account) Statement() Statement {
	return Statement{
		AccountNumber: a.Number,
		Branch:        a.Branch,
		Entries:       a.Transactions(),
		Balance:       a.Balance,
	}
}
