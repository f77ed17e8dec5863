package wallet

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"badgehub/internal/events"
	"badgehub/internal/models"
	"badgehub/internal/response"
	"badgehub/internal/services"
	provider "badgehub/internal/wallet"
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

func newController(t *testing.T, p provider.Provider) *WalletController {
	t.Helper()
	logger := zap.NewNop()
	svc := services.NewWalletService(p, nil, events.NewInMemoryEventBus(nil, logger), logger, &services.WalletServiceConfig{
		Network:          models.LuksoMainnet,
		ReconcileTimeout: time.Second,
	})
	t.Cleanup(func() { svc.Close() })
	return NewWalletController(svc, logger, response.NewBuilder(response.DefaultConfig(), logger))
}

func call(t *testing.T, handler http.HandlerFunc, method, path string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(method, path, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decodeState(t *testing.T, env envelope) models.WalletState {
	t.Helper()
	var st models.WalletState
	require.NoError(t, json.Unmarshal(env.Data, &st))
	return st
}

func TestSessionLifecycle(t *testing.T) {
	c := newController(t, wallettest.NewFakeProvider(account))

	code, env := call(t, c.GetSession, http.MethodGet, "/api/v1/wallet")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, decodeState(t, env).IsConnected)

	code, env = call(t, c.Connect, http.MethodPost, "/api/v1/wallet/connect")
	require.Equal(t, http.StatusOK, code)
	st := decodeState(t, env)
	assert.True(t, st.IsConnected)
	require.NotNil(t, st.Account)
	assert.Equal(t, account, *st.Account)
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Profile 0x5aAe...eAed", st.Profile.Name)

	code, env = call(t, c.GetSession, http.MethodGet, "/api/v1/wallet")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decodeState(t, env).IsConnected)

	code, env = call(t, c.Disconnect, http.MethodPost, "/api/v1/wallet/disconnect")
	require.Equal(t, http.StatusOK, code)
	st = decodeState(t, env)
	assert.False(t, st.IsConnected)
	assert.Nil(t, st.Account)
	assert.Nil(t, st.Profile)
}

func TestConnectWithoutProvider(t *testing.T) {
	c := newController(t, nil)

	code, env := call(t, c.Connect, http.MethodPost, "/api/v1/wallet/connect")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, services.ErrTypeProviderUnavailable, env.Error.Type)
}

func TestGetNetwork(t *testing.T) {
	c := newController(t, nil)

	code, env := call(t, c.GetNetwork, http.MethodGet, "/api/v1/meta/network")
	require.Equal(t, http.StatusOK, code)

	var body struct {
		Network           models.NetworkConfig `json:"network"`
		ChainIDHex        string               `json:"chain_id_hex"`
		ProviderAvailable bool                 `json:"provider_available"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, int64(42), body.Network.ChainID)
	assert.Equal(t, "0x2a", body.ChainIDHex)
	assert.False(t, body.ProviderAvailable)
}
