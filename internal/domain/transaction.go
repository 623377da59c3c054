package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// Transaction is an immutable record of one successful balance change.
// It is constructed only after the account mutation succeeded and is never
// modified or removed once appended to an account's log.
type Transaction struct {
	ID        string          `json:"id"`
	Kind      TransactionKind `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewTransaction(kind TransactionKind, amount decimal.Decimal) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Kind:      kind,
		Amount:    amount,
		Timestamp: time.Now(),
	}
}

// SameDay reports whether the transaction was committed on the given calendar day.
func (tx Transaction) SameDay(day time.Time) bool {
	y1, m1, d1 := tx.Timestamp.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
