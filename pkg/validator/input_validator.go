package validator

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidIdentifier = errors.New("invalid customer identifier")
)

const birthDateLayout = "02/01/2006"

// InputValidator converts raw presentation-layer input into the primitives
// the core expects. End users may type anything; nothing non-numeric or
// malformed gets past this point.
type InputValidator struct {
	amountRegex     *regexp.Regexp
	identifierRegex *regexp.Regexp
}

func NewInputValidator() *InputValidator {
	return &InputValidator{
		amountRegex:     regexp.MustCompile(`^\d+(\.\d{1,2})?$`),
		identifierRegex: regexp.MustCompile(`^[0-9A-Za-z.\-]{1,32}$`),
	}
}

// ParseAmount parses a user-supplied monetary amount. Amounts must be
// positive decimals with at most two fractional digits.
func (v *InputValidator) ParseAmount(raw string) (decimal.Decimal, error) {
	if !v.amountRegex.MatchString(raw) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}

	return amount, nil
}

// ParseBirthDate parses a dd/mm/yyyy date and rejects dates in the future.
func (v *InputValidator) ParseBirthDate(raw string) (time.Time, error) {
	date, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected dd/mm/yyyy", ErrInvalidDate, raw)
	}
	if date.After(time.Now()) {
		return time.Time{}, fmt.Errorf("%w: birth date cannot be in the future", ErrInvalidDate)
	}
	return date, nil
}

func (v *InputValidator) ValidateCustomerID(id string) error {
	if !v.identifierRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return nil
}
