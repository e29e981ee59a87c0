package storefront

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vegist/internal/cache"
	"vegist/internal/models"
	"vegist/internal/resilience"
	"vegist/internal/store"
)

func newCachedService(t *testing.T) (*Service, *store.MemoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := cache.NewClientFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })

	repo := store.NewMemoryStore()
	return NewService(repo, WithCache(client, time.Minute)), repo, mr
}

func TestCategoriesServedFromCache(t *testing.T) {
	ctx := context.Background()
	svc, repo, mr := newCachedService(t)
	repo.SeedCategories(models.Category{Category: "roots"})

	first, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(keyCategories))

	// Seeding behind the cache's back is invisible until the entry expires.
	repo.SeedCategories(models.Category{Category: "roots"}, models.Category{Category: "leafy"})
	cached, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	mr.FastForward(2 * time.Minute)
	fresh, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestCreateProductInvalidatesListings(t *testing.T) {
	ctx := context.Background()
	svc, _, mr := newCachedService(t)

	_, err := svc.CreateProduct(ctx, models.Product{Category: "roots", Extra: models.Attributes{"name": "Carrot"}})
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	roots, err := svc.ListProductsByCategory(ctx, "roots")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.True(t, mr.Exists(keyProductCategory+"roots"))

	_, err = svc.CreateProduct(ctx, models.Product{Category: "roots", Extra: models.Attributes{"name": "Beet", "image": "beet.png"}})
	require.NoError(t, err)
	assert.False(t, mr.Exists(keyProducts))
	assert.False(t, mr.Exists(keyProductCategory+"roots"))

	roots, err = svc.ListProductsByCategory(ctx, "roots")
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	cached, err := svc.ListProductsByCategory(ctx, "roots")
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.Equal(t, "beet.png", cached[1].Extra["image"])
}

func TestCacheOutageFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	svc, repo, mr := newCachedService(t)
	repo.SeedCategories(models.Category{Category: "roots"})
	mr.Close()

	for i := 0; i < 5; i++ {
		cats, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, 1)
	}
	assert.Equal(t, resilience.StateOpen, svc.breaker.State())
}
