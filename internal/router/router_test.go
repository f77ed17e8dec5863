package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"badgehub/internal/config"
	"badgehub/internal/models"
	"badgehub/internal/monitoring"
	"badgehub/internal/response"
	"badgehub/internal/services"
	"badgehub/internal/wallet/wallettest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const account = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

type envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Wallet: config.WalletConfig{ReconcileTimeout: time.Second},
		Cache: config.CacheConfig{
			Provider:        "memory",
			TTL:             time.Minute,
			MaxKeys:         100,
			CleanupInterval: time.Minute,
		},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: []string{"https://app.example.com"},
		},
	}

	sc, err := services.NewServiceCollection(context.Background(), cfg, zap.NewNop(),
		services.WithWalletProvider(wallettest.NewFakeProvider(account)))
	require.NoError(t, err)

	srv := httptest.NewServer(SetupRouter(Dependencies{
		Services:  sc,
		Dashboard: monitoring.NewDashboard(sc, "test", zap.NewNop()),
		Security:  cfg.Security,
		Logger:    zap.NewNop(),
	}))
	t.Cleanup(func() {
		srv.Close()
		require.NoError(t, sc.Shutdown(context.Background()))
	})
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, env := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health services.ServiceHealth
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Dependencies, "cache")
}

func TestBadgeFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, env := do(t, srv, http.MethodGet, "/api/v1/badges", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	var badges []models.Badge
	require.NoError(t, json.Unmarshal(env.Data, &badges))
	assert.Len(t, badges, 3)

	body := `{"name":"Mentor","symbol":"MNT","description":"Helped newcomers","criteria":"Mentor three people","category":"Community","rarity":"Rare","max_supply":100}`

	resp, env = do(t, srv, http.MethodPost, "/api/v1/badges", body)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, services.ErrTypeUnauthorized, env.Error.Type)

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/wallet/connect", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = do(t, srv, http.MethodPost, "/api/v1/badges", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Badge
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, account, created.Creator)

	resp, env = do(t, srv, http.MethodPost, "/api/v1/badges/"+created.ID+"/award", `{"recipient":"0xabc"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var awarded models.Badge
	require.NoError(t, json.Unmarshal(env.Data, &awarded))
	assert.Equal(t, 1, awarded.Recipients)

	resp, env = do(t, srv, http.MethodGet, "/api/v1/creators/"+strings.ToLower(account)+"/badges", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &badges))
	require.Len(t, badges, 1)
	assert.Equal(t, created.ID, badges[0].ID)
}

func TestRoutingErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, env := do(t, srv, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, services.ErrTypeNotFound, env.Error.Type)

	resp, _ = do(t, srv, http.MethodDelete, "/api/v1/badges", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/badges", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSwaggerDoc(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	info, ok := doc["info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "BadgeHub API", info["title"])
}

func TestDashboardRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, env := do(t, srv, http.MethodGet, "/internal/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap monitoring.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, 3, snap.Registry.Badges)
	assert.True(t, snap.Wallet.ProviderAvailable)
}
