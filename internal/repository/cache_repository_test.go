package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, "paws:", nil), mr
}

func TestCacheRepositorySetGet(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "stats:campus", map[string]int{"total_dogs": 4}, time.Minute))
	assert.True(t, mr.Exists("paws:stats:campus"))

	var got map[string]int
	require.NoError(t, repo.Get(ctx, "stats:campus", &got))
	assert.Equal(t, 4, got["total_dogs"])

	mr.FastForward(2 * time.Minute)
	err := repo.Get(ctx, "stats:campus", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, mr := newCacheRepo(t)
	ctx := context.Background()

	for _, k := range []string{"leaderboard:20", "leaderboard:50", "gallery:approved"} {
		require.NoError(t, repo.Set(ctx, k, k, time.Minute))
	}

	deleted, err := repo.DeleteByPattern(ctx, "leaderboard:*")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.False(t, mr.Exists("paws:leaderboard:20"))
	assert.True(t, mr.Exists("paws:gallery:approved"))
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "", nil)
	ctx := context.Background()

	var dest string
	assert.ErrorIs(t, repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", "v", time.Second))
	n, err := repo.DeleteByPattern(ctx, "*")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, repo.Ping(ctx))
}
