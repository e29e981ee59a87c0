// Package storefront implements the shop operations: user registration,
// the product catalog, carts and favorites. Every operation returns a
// result and an error from the ErrInvalidID / ErrDuplicate / ErrNotFound /
// StoreError taxonomy; callers map those to transport statuses.
//
// The one-per-key rules (user email, cart product_id, favorite product_id)
// are check-then-insert. Two concurrent identical writes can both pass the
// check unless the store carries unique indexes on those fields.
package storefront

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vegist/internal/cache"
	"vegist/internal/resilience"
	"vegist/internal/store"
)

const (
	keyCategories      = "catalog:categories"
	keyProducts        = "catalog:products"
	keyProductCategory = "catalog:products:category:"
)

// Cache is the read-through store for catalog listings.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	repo     store.Repository
	cache    Cache
	cacheTTL time.Duration
	breaker  *resilience.CircuitBreaker
}

type Option func(*Service)

// WithCache enables catalog caching. Cache failures never fail a request;
// repeated failures open a breaker and the cache is bypassed for a while.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func NewService(repo store.Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		breaker: resilience.NewCircuitBreaker("catalog-cache", 3, 10*time.Second),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping reports whether the document store answers.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	return nil
}

func readThrough[T any](ctx context.Context, s *Service, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache == nil {
		return load(ctx)
	}

	var cached []T
	hit := false
	err := s.breaker.Execute(func() error {
		err := s.cache.GetJSON(ctx, key, &cached)
		if errors.Is(err, cache.ErrMiss) {
			return nil
		}
		hit = err == nil
		return err
	})
	if err != nil {
		slog.Warn("Catalog cache read failed", "key", key, "error", err)
	}
	if hit {
		return cached, nil
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.breaker.Execute(func() error {
		return s.cache.SetJSON(ctx, key, items, s.cacheTTL)
	}); err != nil {
		slog.Warn("Catalog cache write failed", "key", key, "error", err)
	}
	return items, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.breaker.Execute(func() error {
		return s.cache.Delete(ctx, keys...)
	}); err != nil {
		slog.Warn("Catalog cache invalidation failed", "keys", keys, "error", err)
	}
}
