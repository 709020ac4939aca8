package rates

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

func TestParseStaticSpec(t *testing.T) {
	provider, err := ParseStaticSpec("USD:KHR=4100, KHR:USD=0.000243902439")
	require.NoError(t, err)

	rate, err := provider.Rate(context.Background(), enums.CurrencyUSD, enums.CurrencyKHR)
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.NewFromInt(4100)))
}

func TestParseStaticSpecInvalid(t *testing.T) {
	_, err := ParseStaticSpec("USD-KHR")
	require.Error(t, err)

	_, err = ParseStaticSpec("USD:KHR=abc")
	require.Error(t, err)
}

func TestRateSameCurrency(t *testing.T) {
	provider := NewStaticProvider(nil)
	rate, err := provider.Rate(context.Background(), enums.CurrencyUSD, enums.CurrencyUSD)
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRateMissingPair(t *testing.T) {
	provider := NewStaticProvider(nil)
	_, err := provider.Rate(context.Background(), enums.CurrencyUSD, enums.CurrencyKHR)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRateUnknownCurrency(t *testing.T) {
	provider := NewStaticProvider(nil)
	_, err := provider.Rate(context.Background(), "XXX", enums.CurrencyUSD)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnknownCurrency))
}
