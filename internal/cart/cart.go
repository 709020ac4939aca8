package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/money"
	"github.com/avaldez-dev/tillpoint/pkg/types"
)

// Line is one product in a cart. UnitPrice is snapshotted when the line is
// added and never changes afterward, even if the catalog price moves.
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   money.Money
	Quantity    int
}

// Total returns the line's extended price.
func (l Line) Total() money.Money {
	return l.UnitPrice.MulInt(int64(l.Quantity))
}

// Totals bundles the derived cart amounts. They are recomputed from lines on
// every call, never cached.
type Totals struct {
	Subtotal money.Money `json:"subtotal"`
	Tax      money.Money `json:"tax"`
	Total    money.Money `json:"total"`
}

// Cart is the mutable pre-settlement aggregate: an ordered, product-unique
// sequence of lines plus tax rate and an optional customer reference. It
// performs no I/O; stock checks at add time take the availability the caller
// read from the catalog.
type Cart struct {
	lines       []Line
	taxRate     decimal.Decimal
	currency    enums.Currency
	customerRef *uuid.UUID
	state       enums.CartState
}

// New creates an empty cart priced in the given currency.
func New(currency enums.Currency) (*Cart, error) {
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownCurrency, fmt.Sprintf("unrecognized currency %q", currency))
	}
	return &Cart{
		currency: currency,
		taxRate:  decimal.Zero,
		state:    enums.CartStateEmpty,
	}, nil
}

// FromSnapshot reconstructs a cart from a held-transaction snapshot. The
// result is structurally identical to the cart that was parked.
func FromSnapshot(snap types.CartSnapshot) (*Cart, error) {
	c, err := New(snap.Currency)
	if err != nil {
		return nil, err
	}
	c.taxRate = snap.TaxRatePct
	c.customerRef = snap.CustomerRef
	c.lines = make([]Line, len(snap.Lines))
	for i, line := range snap.Lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot line quantity below 1")
		}
		c.lines[i] = Line{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   money.New(line.UnitPriceAmount, snap.Currency),
			Quantity:    line.Quantity,
		}
	}
	if len(c.lines) > 0 {
		c.state = enums.CartStateBuilding
	}
	return c, nil
}

// Snapshot serializes the cart verbatim for parking.
func (c *Cart) Snapshot() types.CartSnapshot {
	snap := types.CartSnapshot{
		Lines:       make([]types.CartLineSnapshot, len(c.lines)),
		TaxRatePct:  c.taxRate,
		Currency:    c.currency,
		CustomerRef: c.customerRef,
	}
	for i, line := range c.lines {
		snap.Lines[i] = types.CartLineSnapshot{
			ProductID:       line.ProductID,
			ProductName:     line.ProductName,
			UnitPriceAmount: line.UnitPrice.Amount,
			Quantity:        line.Quantity,
		}
	}
	return snap
}

// AddLine inserts a product or increments its quantity. The availability
// check here is an early hint for the caller's UI; the commit-time
// conditional decrement is what actually prevents oversell.
func (c *Cart) AddLine(productID uuid.UUID, name string, unitPrice money.Money, availableQty int) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if unitPrice.Currency != c.currency {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("line currency %s does not match cart currency %s", unitPrice.Currency, c.currency))
	}
	if unitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	for i, line := range c.lines {
		if line.ProductID != productID {
			continue
		}
		newQty := line.Quantity + 1
		if newQty > availableQty {
			return insufficientStock(productID, newQty, availableQty)
		}
		c.lines[i].Quantity = newQty
		return nil
	}

	if availableQty < 1 {
		return insufficientStock(productID, 1, availableQty)
	}
	c.lines = append(c.lines, Line{
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   unitPrice,
		Quantity:    1,
	})
	if c.state == enums.CartStateEmpty {
		c.state = enums.CartStateBuilding
	}
	return nil
}

// RemoveLine drops a product from the cart.
func (c *Cart) RemoveLine(productID uuid.UUID) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			if len(c.lines) == 0 && c.state == enums.CartStateBuilding {
				c.state = enums.CartStateEmpty
			}
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
}

// SetQuantity replaces a line's quantity. Zero removes the line; a quantity
// above the caller-supplied availability fails without touching the line.
func (c *Cart) SetQuantity(productID uuid.UUID, n, availableQty int) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if n < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if n == 0 {
		return c.RemoveLine(productID)
	}
	for i, line := range c.lines {
		if line.ProductID == productID {
			if n > availableQty {
				return insufficientStock(productID, n, availableQty)
			}
			c.lines[i].Quantity = n
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
}

// SetTaxRate sets the tax percentage. Rejected once payment has started so
// the tax basis cannot shift mid-checkout.
func (c *Cart) SetTaxRate(rate decimal.Decimal) error {
	if c.state != enums.CartStateEmpty && c.state != enums.CartStateBuilding {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("tax rate is frozen in state %s", c.state))
	}
	if rate.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax rate must not be negative")
	}
	c.taxRate = rate
	return nil
}

// SetCustomer attaches an opaque customer reference.
func (c *Cart) SetCustomer(ref *uuid.UUID) {
	c.customerRef = ref
}

// Totals derives subtotal, tax and total from the current lines.
func (c *Cart) Totals() (Totals, error) {
	subtotal := money.New(0, c.currency)
	var err error
	for _, line := range c.lines {
		subtotal, err = subtotal.Add(line.Total())
		if err != nil {
			return Totals{}, err
		}
	}
	tax, err := money.ApplyRate(subtotal, c.taxRate)
	if err != nil {
		return Totals{}, err
	}
	total, err := subtotal.Add(tax)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Subtotal: subtotal, Tax: tax, Total: total}, nil
}

// Lines returns a copy of the ordered line items.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// State returns the current lifecycle state.
func (c *Cart) State() enums.CartState {
	return c.state
}

// Currency returns the cart's pricing currency.
func (c *Cart) Currency() enums.Currency {
	return c.currency
}

// TaxRate returns the current tax percentage.
func (c *Cart) TaxRate() decimal.Decimal {
	return c.taxRate
}

// CustomerRef returns the attached customer reference, if any.
func (c *Cart) CustomerRef() *uuid.UUID {
	return c.customerRef
}

func (c *Cart) ensureMutable() error {
	switch c.state {
	case enums.CartStateEmpty, enums.CartStateBuilding:
		return nil
	case enums.CartStateFailed:
		// A failed settlement leaves the cart intact; adjusting lines drops
		// it back to building so checkout must be re-entered.
		c.state = enums.CartStateBuilding
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cart is not mutable in state %s", c.state))
	}
}

func insufficientStock(productID uuid.UUID, requested, available int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("requested %d of product %s, only %d available", requested, productID, available)).
		WithDetails(map[string]any{
			"product_id": productID.String(),
			"requested":  requested,
			"available":  available,
		})
}
