package enums

import "fmt"

// TenderMethod describes how a customer settles a sale.
type TenderMethod string

const (
	TenderMethodCash   TenderMethod = "cash"
	TenderMethodCard   TenderMethod = "card"
	TenderMethodMobile TenderMethod = "mobile"
)

var validTenderMethods = []TenderMethod{
	TenderMethodCash,
	TenderMethodCard,
	TenderMethodMobile,
}

// String implements fmt.Stringer.
func (m TenderMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known TenderMethod.
func (m TenderMethod) IsValid() bool {
	for _, candidate := range validTenderMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// RequiresExactAmount reports whether the method forbids a change path.
func (m TenderMethod) RequiresExactAmount() bool {
	return m == TenderMethodCard || m == TenderMethodMobile
}

// ParseTenderMethod converts raw input into a TenderMethod.
func ParseTenderMethod(value string) (TenderMethod, error) {
	for _, candidate := range validTenderMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tender method %q", value)
}
