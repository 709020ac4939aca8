package redis

import (
	"testing"
	"time"

	"github.com/avaldez-dev/tillpoint/pkg/config"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.RedisConfig{
		URL:          "redis://localhost:6379/2",
		PoolSize:     7,
		MinIdleConns: 3,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2 from url, got %d", opts.DB)
	}
	if opts.PoolSize != 7 {
		t.Fatalf("expected pool size 7, got %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigRequiresURL(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error for missing url")
	}
}

func TestRateKey(t *testing.T) {
	c := &Client{}
	if got := c.RateKey("USD", "KHR"); got != "tp:fx_rate:USD:KHR" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestIdempotencyKey(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("reg-1|POST|/settle", "abc"); got != "tp:idem:reg-1|POST|/settle:abc" {
		t.Fatalf("unexpected key %s", got)
	}
}
