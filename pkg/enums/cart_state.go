package enums

import "fmt"

// CartState tracks where a cart sits in the settlement lifecycle.
type CartState string

const (
	CartStateEmpty           CartState = "empty"
	CartStateBuilding        CartState = "building"
	CartStateAwaitingPayment CartState = "awaiting_payment"
	CartStateValidating      CartState = "validating"
	CartStateCommitted       CartState = "committed"
	CartStateFailed          CartState = "failed"
	CartStateHeld            CartState = "held"
	CartStateCancelled       CartState = "cancelled"
)

var validCartStates = []CartState{
	CartStateEmpty,
	CartStateBuilding,
	CartStateAwaitingPayment,
	CartStateValidating,
	CartStateCommitted,
	CartStateFailed,
	CartStateHeld,
	CartStateCancelled,
}

// String implements fmt.Stringer.
func (s CartState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CartState.
func (s CartState) IsValid() bool {
	for _, candidate := range validCartStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s CartState) IsTerminal() bool {
	return s == CartStateCommitted || s == CartStateCancelled
}

// ParseCartState converts raw input into a CartState.
func ParseCartState(value string) (CartState, error) {
	for _, candidate := range validCartStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart state %q", value)
}
