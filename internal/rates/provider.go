package rates

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
)

// Provider supplies exchange rates to the currency module. The engine only
// ever multiplies by these rates; it never stores them.
type Provider interface {
	Rate(ctx context.Context, from, to enums.Currency) (decimal.Decimal, error)
}

// StaticProvider serves rates from a fixed table, typically loaded from
// configuration.
type StaticProvider struct {
	pairs map[string]decimal.Decimal
}

// NewStaticProvider builds a provider from explicit pairs.
func NewStaticProvider(pairs map[string]decimal.Decimal) *StaticProvider {
	if pairs == nil {
		pairs = map[string]decimal.Decimal{}
	}
	return &StaticProvider{pairs: pairs}
}

// ParseStaticSpec reads "FROM:TO=rate" entries separated by commas, the
// format TILLPOINT_RATES_STATIC uses.
func ParseStaticSpec(spec string) (*StaticProvider, error) {
	pairs := map[string]decimal.Decimal{}
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pair, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("invalid rate entry %q", entry)
		}
		from, to, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("invalid rate pair %q", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid rate value %q: %w", value, err)
		}
		pairs[pairKey(enums.Currency(strings.TrimSpace(from)), enums.Currency(strings.TrimSpace(to)))] = rate
	}
	return NewStaticProvider(pairs), nil
}

// Rate returns the configured rate for the pair. Same-currency requests are
// always 1.
func (p *StaticProvider) Rate(_ context.Context, from, to enums.Currency) (decimal.Decimal, error) {
	if !from.IsValid() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeUnknownCurrency, fmt.Sprintf("unrecognized currency %q", from))
	}
	if !to.IsValid() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeUnknownCurrency, fmt.Sprintf("unrecognized currency %q", to))
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := p.pairs[pairKey(from, to)]
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("no exchange rate configured for %s to %s", from, to))
	}
	return rate, nil
}

func pairKey(from, to enums.Currency) string {
	return string(from) + ":" + string(to)
}
