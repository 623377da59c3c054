package validator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestInputValidator_ParseAmount_Valid(t *testing.T) {
	v := NewInputValidator()

	for raw, want := range map[string]string{
		"150":    "150",
		"150.5":  "150.5",
		"200.00": "200",
		"0.01":   "0.01",
	} {
		amount, err := v.ParseAmount(raw)
		if err != nil {
			t.Errorf("parse %q: unexpected error: %v", raw, err)
			continue
		}
		if !amount.Equal(decimal.RequireFromString(want)) {
			t.Errorf("parse %q: expected %s, got %s", raw, want, amount)
		}
	}
}

func TestInputValidator_ParseAmount_RejectsInvalidInput(t *testing.T) {
	v := NewInputValidator()

	for _, raw := range []string{"", "abc", "-5", "0", "1.234", "1,50", "10.00.00", "1e3"} {
		_, err := v.ParseAmount(raw)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("parse %q: expected ErrInvalidAmount, got %v", raw, err)
		}
	}
}

func TestInputValidator_ParseBirthDate_Valid(t *testing.T) {
	v := NewInputValidator()

	date, err := v.ParseBirthDate("15/03/1990")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date.Day() != 15 || int(date.Month()) != 3 || date.Year() != 1990 {
		t.Errorf("expected 15/03/1990, got %v", date)
	}
}

func TestInputValidator_ParseBirthDate_RejectsMalformedDates(t *testing.T) {
	v := NewInputValidator()

	for _, raw := range []string{"", "1990-03-15", "32/01/1990", "15/13/1990", "yesterday", "01/01/2999"} {
		_, err := v.ParseBirthDate(raw)
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("parse %q: expected ErrInvalidDate, got %v", raw, err)
		}
	}
}

func TestInputValidator_ValidateCustomerID(t *testing.T) {
	v := NewInputValidator()

	for _, id := range []string{"111", "123.456.789-00", "abc123"} {
		if err := v.ValidateCustomerID(id); err != nil {
			t.Errorf("identifier %q: unexpected error: %v", id, err)
		}
	}
	for _, id := range []string{"", "has space", "way-too-long-identifier-way-too-long-identifier"} {
		if err := v.ValidateCustomerID(id); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("identifier %q: expected ErrInvalidIdentifier, got %v", id, err)
		}
	}
}
