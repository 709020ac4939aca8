package rates

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/tillpoint/pkg/enums"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
	"github.com/avaldez-dev/tillpoint/pkg/redis"
)

type rateCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	RateKey(from, to string) string
}

// CachedProvider fronts another provider with a Redis cache. Cache problems
// never fail a checkout; they just fall through to the inner provider.
type CachedProvider struct {
	inner Provider
	cache rateCache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCachedProvider wraps the inner provider with a rate cache.
func NewCachedProvider(inner Provider, cache *redis.Client, ttl time.Duration, logg *logger.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache, ttl: ttl, logg: logg}
}

func (p *CachedProvider) Rate(ctx context.Context, from, to enums.Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	key := p.cache.RateKey(from.String(), to.String())

	cached, err := p.cache.Get(ctx, key)
	if err == nil {
		if rate, perr := decimal.NewFromString(cached); perr == nil {
			return rate, nil
		}
	} else if !errors.Is(err, redis.Nil) && p.logg != nil {
		p.logg.Warn(ctx, "rate cache read failed, falling back to provider")
	}

	rate, err := p.inner.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	if serr := p.cache.Set(ctx, key, rate.String(), p.ttl); serr != nil && p.logg != nil {
		p.logg.Warn(ctx, "rate cache write failed")
	}
	return rate, nil
}
