package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/money"
)

func usd(cents int64) money.Money {
	return money.New(cents, enums.CurrencyUSD)
}

func newBuildingCart(t *testing.T) *Cart {
	t.Helper()
	c, err := New(enums.CurrencyUSD)
	require.NoError(t, err)
	return c
}

func TestAddLineSnapshotsPrice(t *testing.T) {
	c := newBuildingCart(t)
	productID := uuid.New()

	require.NoError(t, c.AddLine(productID, "espresso", usd(250), 10))
	// Catalog price moves; adding the same product again keeps the snapshot.
	require.NoError(t, c.AddLine(productID, "espresso", usd(999), 10))

	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, usd(250), lines[0].UnitPrice)

	totals, err := c.Totals()
	require.NoError(t, err)
	require.Equal(t, usd(500), totals.Subtotal)
}

func TestAddLineInsufficientStockLeavesCartUnchanged(t *testing.T) {
	c := newBuildingCart(t)
	productID := uuid.New()

	require.NoError(t, c.AddLine(productID, "beans", usd(1200), 1))
	err := c.AddLine(productID, "beans", usd(1200), 1)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))

	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 1, lines[0].Quantity)
}

func TestAddLineNoStockAtAll(t *testing.T) {
	c := newBuildingCart(t)
	err := c.AddLine(uuid.New(), "beans", usd(1200), 0)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	require.Empty(t, c.Lines())
	require.Equal(t, enums.CartStateEmpty, c.State())
}

func TestSetQuantity(t *testing.T) {
	c := newBuildingCart(t)
	productID := uuid.New()
	require.NoError(t, c.AddLine(productID, "milk", usd(150), 5))

	require.NoError(t, c.SetQuantity(productID, 4, 5))
	require.Equal(t, 4, c.Lines()[0].Quantity)

	err := c.SetQuantity(productID, 6, 5)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	require.Equal(t, 4, c.Lines()[0].Quantity)

	require.NoError(t, c.SetQuantity(productID, 0, 5))
	require.Empty(t, c.Lines())
	require.Equal(t, enums.CartStateEmpty, c.State())
}

func TestSetQuantityMissingProduct(t *testing.T) {
	c := newBuildingCart(t)
	require.NoError(t, c.AddLine(uuid.New(), "milk", usd(150), 5))
	err := c.SetQuantity(uuid.New(), 2, 5)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestTotalsRecomputedWithTax(t *testing.T) {
	c := newBuildingCart(t)
	require.NoError(t, c.AddLine(uuid.New(), "a", usd(1000), 10))
	require.NoError(t, c.SetTaxRate(decimal.NewFromInt(10)))

	totals, err := c.Totals()
	require.NoError(t, err)
	require.Equal(t, usd(1000), totals.Subtotal)
	require.Equal(t, usd(100), totals.Tax)
	require.Equal(t, usd(1100), totals.Total)
}

func TestSetTaxRateFrozenAfterCheckout(t *testing.T) {
	c := newBuildingCart(t)
	require.NoError(t, c.AddLine(uuid.New(), "a", usd(1000), 10))
	require.NoError(t, c.BeginCheckout())

	err := c.SetTaxRate(decimal.NewFromInt(5))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := newBuildingCart(t)
	require.NoError(t, c.AddLine(uuid.New(), "a", usd(100), 5))
	require.NoError(t, c.RemoveLine(c.Lines()[0].ProductID))

	err := c.BeginCheckout()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStateMachineHappyPath(t *testing.T) {
	c := newBuildingCart(t)
	require.NoError(t, c.AddLine(uuid.New(), "a", usd(100), 5))

	require.NoError(t, c.BeginCheckout())
	require.Equal(t, enums.CartStateAwaitingPayment, c.State())
	require.NoError(t, c.BeginValidation())
	require.Equal(t, enums.CartStateValidating, c.State())
	require.NoError(t, c.MarkCommitted())
	require.Equal(t, enums.CartStateCommitted, c.State())

	// Terminal: nothing else moves.
	require.Error(t, c.Cancel())
	require.Error(t, c.BeginCheckout())
}

func TestFailedReentersPayment(t *testing.T) {
	c := newBuildingCart(t)
	require.NoError(t, c.AddLine(uuid.New(), "a", usd(100), 5))
	require.NoError(t, c.BeginCheckout())
	require.NoError(t, c.BeginValidation())
	require.NoError(t, c.MarkFailed())

	// Re-tender from failed works without another checkout call.
	require.NoError(t, c.BeginValidation())
	require.NoError(t, c.MarkFailed())

	// Adjusting lines after a failure drops back to building.
	require.NoError(t, c.SetQuantity(c.Lines()[0].ProductID, 2, 5))
	require.Equal(t, enums.CartStateBuilding, c.State())
}

func TestHoldRequiresLines(t *testing.T) {
	c := newBuildingCart(t)
	err := c.MarkHeld()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	require.NoError(t, c.AddLine(uuid.New(), "a", usd(100), 5))
	require.NoError(t, c.MarkHeld())
	require.Equal(t, enums.CartStateHeld, c.State())
}

func TestCancelFromAnyNonTerminalState(t *testing.T) {
	c := newBuildingCart(t)
	require.NoError(t, c.AddLine(uuid.New(), "a", usd(100), 5))
	require.NoError(t, c.BeginCheckout())
	require.NoError(t, c.Cancel())
	require.Equal(t, enums.CartStateCancelled, c.State())
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := newBuildingCart(t)
	customer := uuid.New()
	require.NoError(t, c.AddLine(uuid.New(), "a", usd(100), 5))
	require.NoError(t, c.AddLine(uuid.New(), "b", usd(250), 5))
	require.NoError(t, c.AddLine(uuid.New(), "c", usd(75), 5))
	require.NoError(t, c.SetTaxRate(decimal.NewFromFloat(7.5)))
	c.SetCustomer(&customer)

	restored, err := FromSnapshot(c.Snapshot())
	require.NoError(t, err)
	require.Equal(t, c.Lines(), restored.Lines())
	require.True(t, c.TaxRate().Equal(restored.TaxRate()))
	require.Equal(t, c.CustomerRef(), restored.CustomerRef())
	require.Equal(t, enums.CartStateBuilding, restored.State())
}

func TestAddLineCurrencyMismatch(t *testing.T) {
	c := newBuildingCart(t)
	err := c.AddLine(uuid.New(), "a", money.New(100, enums.CurrencyKHR), 5)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
