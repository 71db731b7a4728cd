package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tally/internal/constants"
	"tally/internal/dedup"
)

func TestDedupRepository_SetNX_NewKey(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	won, err := repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Minute)
	require.NoError(t, err)
	assert.True(t, won)
}

func TestDedupRepository_SetNX_ExistingKey(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	won, err := repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Minute)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Minute)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestDedupRepository_SetNX_TTLExpiry(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	won, err := repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Second)
	require.NoError(t, err)
	assert.True(t, won)

	// Wait for the claim to expire
	time.Sleep(2 * time.Second)

	won, err = repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Second)
	require.NoError(t, err)
	assert.True(t, won, "Expired key should be claimable again")
}

func TestDedupRepository_SetNX_DifferentKeys(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("dedup:msg-%d", i)
		won, err := repo.SetNX(ctx, key, "fp", 1*time.Minute)
		require.NoError(t, err)
		assert.True(t, won, "Each distinct key should be claimable")
	}
}

func TestDedupRepository_Get_StoredValue(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	_, err := repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Minute)
	require.NoError(t, err)

	value, err := repo.Get(ctx, "dedup:msg-1")
	require.NoError(t, err)
	assert.Equal(t, "fp-1", value)
}

func TestDedupRepository_Get_MissingKey(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	value, err := repo.Get(ctx, "dedup:never-set")
	require.NoError(t, err, "Missing key should not be an error")
	assert.Equal(t, "", value)
}

func TestDedupRepository_Del_ReleasesKey(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	won, err := repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Minute)
	require.NoError(t, err)
	assert.True(t, won)

	err = repo.Del(ctx, "dedup:msg-1")
	require.NoError(t, err)

	won, err = repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Minute)
	require.NoError(t, err)
	assert.True(t, won, "Deleted key should be claimable again")
}

func TestDedupRepository_GetCacheSize(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	ctx := context.Background()
	repo := dedup.NewRepository(infra.RedisClient)

	size, err := repo.GetCacheSize(ctx, constants.CacheKeyPrefixDedup)
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("%smsg-%d", constants.CacheKeyPrefixDedup, i)
		_, err := repo.SetNX(ctx, key, "fp", 1*time.Minute)
		require.NoError(t, err)
	}

	// Keys outside the prefix must not be counted
	_, err = repo.SetNX(ctx, "fxrate:USD-EUR", "fp", 1*time.Minute)
	require.NoError(t, err)

	size, err = repo.GetCacheSize(ctx, constants.CacheKeyPrefixDedup)
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestDedupRepository_SetNX_CancelledContext(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, false, false, true)

	repo := dedup.NewRepository(infra.RedisClient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.SetNX(ctx, "dedup:msg-1", "fp-1", 1*time.Minute)
	assert.Error(t, err)
}
