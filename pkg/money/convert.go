package money

import (
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
)

// Convert re-expresses an amount in another currency at the given rate,
// banker's-rounding to the target currency's minor-unit precision.
func Convert(m Money, to enums.Currency, rate decimal.Decimal) (Money, error) {
	if !m.Currency.IsValid() {
		return Money{}, unknownCurrency(m.Currency)
	}
	if !to.IsValid() {
		return Money{}, unknownCurrency(to)
	}
	if m.Currency == to {
		return m, nil
	}
	return FromDecimal(m.Decimal().Mul(rate), to)
}

// Pair holds the same value expressed in two currencies, for callers that
// render dual-currency displays.
type Pair struct {
	Base    Money `json:"base"`
	Counter Money `json:"counter"`
}

// ConvertedPair returns the amount alongside its conversion into the counter
// currency.
func ConvertedPair(m Money, counter enums.Currency, rate decimal.Decimal) (Pair, error) {
	converted, err := Convert(m, counter, rate)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Base: m, Counter: converted}, nil
}

// ApplyRate multiplies the amount by a percentage (e.g. a tax rate),
// banker's-rounding the result to the currency's precision.
func ApplyRate(m Money, percent decimal.Decimal) (Money, error) {
	return FromDecimal(m.Decimal().Mul(percent).Div(decimal.NewFromInt(100)), m.Currency)
}
