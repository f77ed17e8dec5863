package services

import (
	"context"
	"testing"
	"time"

	"badgehub/internal/config"
	"badgehub/internal/wallet/wallettest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Registry: config.RegistryConfig{},
		Wallet: config.WalletConfig{
			ReconcileTimeout: time.Second,
			ProfileCacheTTL:  time.Minute,
		},
		Cache: config.CacheConfig{
			Provider:        "memory",
			TTL:             time.Minute,
			MaxKeys:         100,
			CleanupInterval: time.Minute,
		},
		Cloudinary: config.CloudinaryConfig{
			MaxFileSize:    5 << 20,
			AllowedFormats: []string{"png", "jpg"},
		},
	}
}

func TestServiceCollectionLifecycle(t *testing.T) {
	ctx := context.Background()
	provider := wallettest.NewFakeProvider(lowerAccount)

	sc, err := NewServiceCollection(ctx, testConfig(), zap.NewNop(), WithWalletProvider(provider))
	require.NoError(t, err)
	assert.Equal(t, "placeholder", sc.MediaService.StoreName())

	require.NoError(t, sc.Start(ctx))
	assert.Error(t, sc.Start(ctx))
	assert.True(t, sc.WalletService.State().IsConnected)

	state, err := sc.BadgeService.State(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Badges, 3)

	health := sc.HealthCheck(ctx)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Dependencies["wallet"].Status)
	assert.Equal(t, "memory", health.Dependencies["cache"].Metadata["provider"])

	require.NoError(t, sc.Shutdown(ctx))
	require.NoError(t, sc.Shutdown(ctx))
	assert.Zero(t, provider.ListenerCount("accountsChanged"))
}

func TestServiceCollectionWithoutWallet(t *testing.T) {
	ctx := context.Background()

	sc, err := NewServiceCollection(ctx, testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer sc.Shutdown(ctx)

	require.NoError(t, sc.Start(ctx))
	assert.False(t, sc.WalletService.ProviderAvailable())
	assert.Equal(t, "disabled", sc.HealthCheck(ctx).Dependencies["wallet"].Status)
}

func TestNewServiceCollectionValidation(t *testing.T) {
	_, err := NewServiceCollection(context.Background(), nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewServiceCollection(context.Background(), testConfig(), nil)
	assert.Error(t, err)

	bad := testConfig()
	bad.Cache.Provider = "memcached"
	_, err = NewServiceCollection(context.Background(), bad, zap.NewNop())
	assert.Error(t, err)
}
