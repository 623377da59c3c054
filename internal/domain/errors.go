package domain

import "errors"

// Ledger errors are expected, recoverable outcomes. They are returned to the
// caller for translation into user-facing messages; nothing here is fatal.
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWithdrawalCeiling   = errors.New("amount exceeds per-withdrawal limit")
	ErrDailyWithdrawals    = errors.New("daily withdrawal limit reached")
)
