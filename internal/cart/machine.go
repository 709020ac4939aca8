package cart

import (
	"fmt"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

// Lifecycle transitions. The settlement engine drives these; the guards live
// here so no caller can skip them.

// BeginCheckout moves building → awaiting_payment. A cart with no lines is a
// caller mistake, not a transition.
func (c *Cart) BeginCheckout() error {
	if c.state != enums.CartStateEmpty && c.state != enums.CartStateBuilding {
		return stateConflict(c.state, enums.CartStateAwaitingPayment)
	}
	if len(c.lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "empty cart checkout")
	}
	c.state = enums.CartStateAwaitingPayment
	return nil
}

// BeginValidation moves awaiting_payment → validating. A cart whose last
// settlement attempt failed re-enters payment through the same door.
func (c *Cart) BeginValidation() error {
	if c.state != enums.CartStateAwaitingPayment && c.state != enums.CartStateFailed {
		return stateConflict(c.state, enums.CartStateValidating)
	}
	c.state = enums.CartStateValidating
	return nil
}

// MarkCommitted finalizes the cart after a successful commit.
func (c *Cart) MarkCommitted() error {
	if c.state != enums.CartStateValidating {
		return stateConflict(c.state, enums.CartStateCommitted)
	}
	c.state = enums.CartStateCommitted
	return nil
}

// MarkFailed records a failed settlement attempt. Lines stay intact so the
// cashier can re-tender or adjust.
func (c *Cart) MarkFailed() error {
	if c.state != enums.CartStateValidating {
		return stateConflict(c.state, enums.CartStateFailed)
	}
	c.state = enums.CartStateFailed
	return nil
}

// CanHold reports whether the cart is parkable right now.
func (c *Cart) CanHold() error {
	if c.state != enums.CartStateBuilding {
		return stateConflict(c.state, enums.CartStateHeld)
	}
	if len(c.lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot hold an empty cart")
	}
	return nil
}

// MarkHeld parks the cart. Requires at least one line.
func (c *Cart) MarkHeld() error {
	if err := c.CanHold(); err != nil {
		return err
	}
	c.state = enums.CartStateHeld
	return nil
}

// Cancel abandons the cart from any non-terminal state. No persistence
// effect; the caller simply discards the aggregate.
func (c *Cart) Cancel() error {
	if c.state.IsTerminal() {
		return stateConflict(c.state, enums.CartStateCancelled)
	}
	c.state = enums.CartStateCancelled
	return nil
}

func stateConflict(from, to enums.CartState) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot transition from %s to %s", from, to)).
		WithDetails(map[string]any{"from": from.String(), "to": to.String()})
}
