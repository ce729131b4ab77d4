package repository

import (
	"context"
	"ctchen222/booklist/internal/api/models"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestCachedBookRepository_ReadThroughAndEvict(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	pool := newTestDB(t)
	reader := createReader(t, NewReaderRepository(pool), "cache@example.com")

	repo := NewCachedBookRepository(NewBookRepository(pool), rdb, time.Minute)
	book, err := repo.Create(ctx, &models.Book{UserID: reader.ID, Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	first, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	exists, err := rdb.Exists(ctx, bookCacheKey(book.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	done := true
	updated, err := repo.UpdateByID(ctx, book.ID, models.BookUpdate{Done: &done})
	require.NoError(t, err)
	assert.True(t, updated.Done)

	exists, err = rdb.Exists(ctx, bookCacheKey(book.ID)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	again, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, again.Done)
}

func TestCachedBookRepository_MissIsNotCached(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	repo := NewCachedBookRepository(NewBookRepository(newTestDB(t)), rdb, time.Minute)

	book, err := repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, book)

	exists, err := rdb.Exists(ctx, bookCacheKey("missing")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}
