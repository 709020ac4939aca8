package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

func TestComputeChangeSameCurrency(t *testing.T) {
	total := New(1345, enums.CurrencyUSD)    // $13.45
	tendered := New(2000, enums.CurrencyUSD) // $20.00

	result, err := ComputeChange(total, tendered, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.Equal(t, New(655, enums.CurrencyUSD), result.Change)
	require.Equal(t, enums.CurrencyUSD, result.Change.Currency)
}

func TestComputeChangeInsufficientTender(t *testing.T) {
	total := New(1345, enums.CurrencyUSD)
	tendered := New(1000, enums.CurrencyUSD)

	_, err := ComputeChange(total, tendered, decimal.NewFromInt(1))
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientTender))
}

func TestComputeChangeCrossCurrency(t *testing.T) {
	// $13.45 at 4100 KHR/USD = 55145 riel; tendered 60000 riel.
	total := New(1345, enums.CurrencyUSD)
	tendered := New(60000, enums.CurrencyKHR)

	result, err := ComputeChange(total, tendered, decimal.NewFromInt(4100))
	require.NoError(t, err)
	require.Equal(t, enums.CurrencyKHR, result.Change.Currency)
	require.Equal(t, int64(4855), result.Change.Amount)
}

func TestConvertRoundsBankToZeroDecimalCurrency(t *testing.T) {
	// 0.25 USD * 4098 = 1024.5 riel; banker's rounding lands on the even 1024.
	m := New(25, enums.CurrencyUSD)
	converted, err := Convert(m, enums.CurrencyKHR, decimal.NewFromInt(4098))
	require.NoError(t, err)
	require.Equal(t, int64(1024), converted.Amount)
}

func TestConvertUnknownCurrency(t *testing.T) {
	_, err := Convert(New(100, "XXX"), enums.CurrencyUSD, decimal.NewFromInt(1))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnknownCurrency))

	_, err = Convert(New(100, enums.CurrencyUSD), "XXX", decimal.NewFromInt(1))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnknownCurrency))
}

func TestConvertSameCurrencyIgnoresRate(t *testing.T) {
	m := New(1345, enums.CurrencyUSD)
	converted, err := Convert(m, enums.CurrencyUSD, decimal.NewFromInt(4100))
	require.NoError(t, err)
	require.Equal(t, m, converted)
}

func TestApplyRate(t *testing.T) {
	subtotal := New(1000, enums.CurrencyUSD) // $10.00
	tax, err := ApplyRate(subtotal, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Equal(t, New(100, enums.CurrencyUSD), tax)

	// 10% of $10.05 is $1.005; banker's rounding lands on $1.00.
	tax, err = ApplyRate(New(1005, enums.CurrencyUSD), decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Equal(t, int64(100), tax.Amount)
}

func TestArithmeticCurrencyMismatch(t *testing.T) {
	_, err := New(100, enums.CurrencyUSD).Add(New(100, enums.CurrencyKHR))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = New(100, enums.CurrencyUSD).Sub(New(100, enums.CurrencyKHR))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRepeatedAdditionHasNoDrift(t *testing.T) {
	sum := New(0, enums.CurrencyUSD)
	var err error
	for i := 0; i < 1000; i++ {
		sum, err = sum.Add(New(1, enums.CurrencyUSD)) // one cent at a time
		require.NoError(t, err)
	}
	require.Equal(t, int64(1000), sum.Amount)
}

func TestConvertedPair(t *testing.T) {
	pair, err := ConvertedPair(New(1345, enums.CurrencyUSD), enums.CurrencyKHR, decimal.NewFromInt(4100))
	require.NoError(t, err)
	require.Equal(t, int64(1345), pair.Base.Amount)
	require.Equal(t, int64(55145), pair.Counter.Amount)
}

func TestString(t *testing.T) {
	require.Equal(t, "13.45 USD", New(1345, enums.CurrencyUSD).String())
	require.Equal(t, "55145 KHR", New(55145, enums.CurrencyKHR).String())
}
