package enums

import "fmt"

// Currency represents supported monetary denominations.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyKHR Currency = "KHR"
)

// minorUnitExponents maps each currency to the number of minor-unit digits.
// KHR is a zero-decimal currency; amounts are whole riel.
var minorUnitExponents = map[Currency]int32{
	CurrencyUSD: 2,
	CurrencyKHR: 0,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	_, ok := minorUnitExponents[c]
	return ok
}

// MinorUnitExponent returns the number of decimal digits the currency's
// minor unit carries.
func (c Currency) MinorUnitExponent() int32 {
	return minorUnitExponents[c]
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	candidate := Currency(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid currency %q", value)
	}
	return candidate, nil
}
