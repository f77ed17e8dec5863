package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Greater(t, cfg.Server.WriteTimeout, cfg.Wallet.RequestTimeout)
	assert.Equal(t, "test", cfg.Server.Environment)
	assert.Equal(t, 2*time.Second, cfg.Registry.CreateDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Registry.AwardDelay)
	assert.False(t, cfg.Registry.StrictAward)
	assert.Empty(t, cfg.Wallet.BridgeURL)
	assert.Equal(t, "memory", cfg.Cache.Provider)
	assert.False(t, cfg.Cloudinary.Enabled())
	assert.Equal(t, []string{"*"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("REGISTRY_STRICT_AWARD", "true")
	t.Setenv("REGISTRY_CREATE_DELAY", "0s")
	t.Setenv("WALLET_BRIDGE_URL", "wss://bridge.example.com/rpc")
	t.Setenv("CACHE_PROVIDER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Registry.StrictAward)
	assert.Zero(t, cfg.Registry.CreateDelay)
	assert.Equal(t, "wss://bridge.example.com/rpc", cfg.Wallet.BridgeURL)
	assert.Equal(t, "redis", cfg.Cache.Provider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
	assert.True(t, cfg.Cloudinary.Enabled())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"non-numeric port": {"PORT", "http"},
		"bridge scheme":    {"WALLET_BRIDGE_URL", "http://bridge.example.com"},
		"unknown cache":    {"CACHE_PROVIDER", "memcached"},
		"negative delay":   {"REGISTRY_AWARD_DELAY", "-1s"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("GO_ENV", "test")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestWriteTimeoutMustOutlastWalletRequests(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("WALLET_BRIDGE_URL", "ws://localhost:8545/rpc")
	t.Setenv("WALLET_REQUEST_TIMEOUT", "30s")

	t.Setenv("SERVER_WRITE_TIMEOUT", "15s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WALLET_REQUEST_TIMEOUT")

	t.Setenv("SERVER_WRITE_TIMEOUT", "45s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("LIST_UNDER_TEST", " a ,b,, c")
	assert.Equal(t, []string{"a", "b", "c"}, getListEnv("LIST_UNDER_TEST", ""))
	assert.Nil(t, getListEnv("LIST_NOT_SET", ""))
}
