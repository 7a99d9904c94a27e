package stock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

// BreakerConfig controls when the remote API is considered down.
type BreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// DefaultBreakerConfig returns the breaker settings used in production.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
	}
}

// Observer receives lookup outcomes. Result is one of "hit", "miss", "not_found",
// "unavailable", "cancelled" or "error".
type Observer func(result string)

// CachedClient caches successful lookups, collapses concurrent lookups of the same
// query into one remote call and stops calling a failing remote API for a while.
type CachedClient struct {
	next    Lookuper
	cache   *cache.Cache
	group   singleflight.Group
	breaker *gobreaker.CircuitBreaker
	observe Observer
}

// NewCachedClient wraps next with a ttl cache and a circuit breaker.
func NewCachedClient(next Lookuper, ttl time.Duration, cfg BreakerConfig, observe Observer) *CachedClient {
	if observe == nil {
		observe = func(string) {}
	}
	return &CachedClient{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "stock-api",
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			// A missing stock is an answer, and a caller giving up says nothing about the remote API.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
			},
		}),
		observe: observe,
	}
}

// Lookup returns a cached stock or resolves it through the wrapped client.
func (c *CachedClient) Lookup(ctx context.Context, query string) (Stock, error) {
	key := strings.TrimSpace(query)
	if key == "" {
		return Stock{}, ErrEmptyQuery
	}

	if v, ok := c.cache.Get(key); ok {
		c.observe("hit")
		return v.(Stock), nil
	}

	// The shared call outlives any single caller; the HTTP client timeout bounds it.
	remote := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.breaker.Execute(func() (any, error) {
			return c.next.Lookup(remote, key)
		})
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		c.observe("cancelled")
		return Stock{}, ctx.Err()
	case res = <-ch:
	}

	v, err := res.Val, res.Err
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			c.observe("unavailable")
			return Stock{}, ErrUnavailable
		case errors.Is(err, ErrNotFound):
			c.observe("not_found")
		default:
			c.observe("error")
		}
		return Stock{}, err
	}

	s := v.(Stock)
	c.cache.Set(key, s, cache.DefaultExpiration)
	c.observe("miss")
	return s, nil
}

// State reports the breaker state.
func (c *CachedClient) State() string {
	return c.breaker.State().String()
}
