package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits an amount may carry.
const AmountScale = 4

var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrAmountPrecision = errors.New("amount has more than 4 fractional digits")
)

// ParseAmount decodes an event amount.
// A blank field is an exact zero, not an error: dispute, resolve and
// chargeback rows carry no amount of their own.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q: %w", raw, ErrNegativeAmount)
	}
	if !amount.Truncate(AmountScale).Equal(amount) {
		return decimal.Zero, fmt.Errorf("amount %q: %w", raw, ErrAmountPrecision)
	}

	return amount, nil
}

// FormatAmount renders zero as the bare integer "0" and anything else at
// full precision.
func FormatAmount(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "0"
	}
	return amount.String()
}
