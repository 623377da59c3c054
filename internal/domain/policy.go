package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default checking account limits.
var (
	DefaultWithdrawalCeiling   = decimal.NewFromInt(500)
	DefaultMaxDailyWithdrawals = 3
)

// WithdrawalRule is a single eligibility predicate evaluated before a
// withdrawal mutates the balance. It returns nil when the withdrawal may
// proceed and the violated rule's error otherwise.
type WithdrawalRule func(a *Account, amount decimal.Decimal) error

// WithdrawalPolicy is an ordered chain of rules. The first violated rule
// wins; order is part of the contract.
type WithdrawalPolicy struct {
	rules []WithdrawalRule
}

func (p WithdrawalPolicy) Check(a *Account, amount decimal.Decimal) error {
	for _, rule := range p.rules {
		if err := rule(a, amount); err != nil {
			return err
		}
	}
	return nil
}

// CheckingPolicy builds the checking account policy. The daily count rule
// runs strictly before the ceiling rule: a customer who exhausted the daily
// withdrawals is told so even when the amount is also out of range.
func CheckingPolicy(ceiling decimal.Decimal, maxDaily int) WithdrawalPolicy {
	return WithdrawalPolicy{rules: []WithdrawalRule{
		dailyCountRule(maxDaily),
		ceilingRule(ceiling),
	}}
}

func dailyCountRule(maxDaily int) WithdrawalRule {
	return func(a *Account, _ decimal.Decimal) error {
		if a.WithdrawalsOn(time.Now()) >= maxDaily {
			return ErrDailyWithdrawals
		}
		return nil
	}
}

// ceilingRule rejects amounts strictly above the ceiling; a withdrawal of
// exactly the ceiling succeeds.
func ceilingRule(ceiling decimal.Decimal) WithdrawalRule {
	return func(_ *Account, amount decimal.Decimal) error {
		if amount.GreaterThan(ceiling) {
			return ErrWithdrawalCeiling
		}
		return nil
	}
}
