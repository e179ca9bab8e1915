package service

import (
	"context"
	"testing"
	"time"

	"marketplace-booking/internal/repository"
	"marketplace-booking/internal/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCacheWithoutRedisReadsDatabase(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	plumbing := fx.Category("Plomería", "plomeria")

	cache := NewCategoryCache(db, nil, testutil.NewLogger(), repository.NewCatalogRepository(), time.Minute)
	ctx := context.Background()

	id, err := cache.ResolveSlug(ctx, "plomeria")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, plumbing.ID, *id)

	missing, err := cache.ResolveSlug(ctx, "jardineria")
	require.NoError(t, err)
	assert.Nil(t, missing)

	cache.Invalidate(ctx, "plomeria")
	assert.NoError(t, cache.SyncOnStartup(ctx))
}

func TestCategoryCacheFallsBackWhenRedisIsDown(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	plumbing := fx.Category("Plomería", "plomeria")

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	cache := NewCategoryCache(db, client, testutil.NewLogger(), repository.NewCatalogRepository(), time.Minute)
	ctx := context.Background()

	id, err := cache.ResolveSlug(ctx, "plomeria")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, plumbing.ID, *id)

	cache.Invalidate(ctx, "plomeria")
	assert.Error(t, cache.SyncOnStartup(ctx))
}
