package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

// Money is a fixed-point amount in a currency's minor units. All totals in
// the engine travel as Money; float arithmetic is never used.
type Money struct {
	Amount   int64          `json:"amount"`
	Currency enums.Currency `json:"currency"`
}

// New builds a Money from an amount already expressed in minor units.
func New(amount int64, currency enums.Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// FromDecimal converts a major-unit decimal into Money, banker's-rounding to
// the currency's minor-unit precision.
func FromDecimal(d decimal.Decimal, currency enums.Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, unknownCurrency(currency)
	}
	minor := d.Shift(currency.MinorUnitExponent()).RoundBank(0)
	return Money{Amount: minor.IntPart(), Currency: currency}, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, 0).Shift(-m.Currency.MinorUnitExponent())
}

// String renders the major-unit amount with its currency code.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(m.Currency.MinorUnitExponent()), m.Currency)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount < 0
}

// Equal reports amount and currency equality.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount == other.Amount
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts an amount of the same currency.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// MulInt scales the amount by a whole quantity.
func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("currency mismatch: %s vs %s", m.Currency, other.Currency))
	}
	return nil
}

func unknownCurrency(c enums.Currency) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeUnknownCurrency, fmt.Sprintf("unrecognized currency %q", c))
}
