package services

import (
	"context"
	"testing"
	"time"

	"badgehub/internal/cache"
	"badgehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticProfileLoader(t *testing.T) {
	loader := NewSyntheticProfileLoader()

	profile, err := loader.LoadProfile(context.Background(), checksumAccount)
	require.NoError(t, err)
	assert.Equal(t, checksumAccount, profile.Address)
	assert.Equal(t, "Universal Profile on LUKSO", profile.Description)
	assert.Contains(t, profile.ProfileImage, "seed="+checksumAccount)

	_, err = loader.LoadProfile(context.Background(), "")
	assert.Error(t, err)
}

func TestCachedProfileLoader(t *testing.T) {
	c := cache.NewMemoryCache(cache.DefaultConfig(), nil)
	defer c.Close()

	calls := 0
	next := ProfileLoaderFunc(func(ctx context.Context, address string) (*models.Profile, error) {
		calls++
		return &models.Profile{Address: address, Name: "loaded"}, nil
	})
	loader := NewCachedProfileLoader(next, c, time.Minute, nil)
	ctx := context.Background()

	first, err := loader.LoadProfile(ctx, checksumAccount)
	require.NoError(t, err)
	second, err := loader.LoadProfile(ctx, lowerAccount)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}
