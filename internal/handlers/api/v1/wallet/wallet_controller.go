package wallet

import (
	"net/http"

	"badgehub/internal/response"
	"badgehub/internal/services"

	"go.uber.org/zap"
)

// WalletController exposes the wallet session.
type WalletController struct {
	wallet          services.WalletService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewWalletController creates a wallet controller.
func NewWalletController(wallet services.WalletService, logger *zap.Logger, responseBuilder *response.Builder) *WalletController {
	return &WalletController{wallet: wallet, logger: logger, responseBuilder: responseBuilder}
}

// GetSession handles GET /api/v1/wallet
//
// @Summary Wallet session
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.APIResponse{data=models.WalletState}
// @Router /wallet [get]
func (c *WalletController) GetSession(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, c.wallet.State())
}

// Connect handles POST /api/v1/wallet/connect
//
// @Summary Connect the wallet
// @Description Requests accounts, steers the wallet onto the target network and loads the profile
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.APIResponse{data=models.WalletState}
// @Failure 502 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /wallet/connect [post]
func (c *WalletController) Connect(w http.ResponseWriter, r *http.Request) {
	state, err := c.wallet.Connect(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, state)
}

// Disconnect handles POST /api/v1/wallet/disconnect
//
// @Summary Disconnect the wallet
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.APIResponse{data=models.WalletState}
// @Router /wallet/disconnect [post]
func (c *WalletController) Disconnect(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, c.wallet.Disconnect(r.Context()))
}

// GetNetwork handles GET /api/v1/meta/network
//
// @Summary Target network
// @Tags Meta
// @Produce json
// @Success 200 {object} response.APIResponse{data=models.NetworkConfig}
// @Router /meta/network [get]
func (c *WalletController) GetNetwork(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"network":            c.wallet.Network(),
		"chain_id_hex":       c.wallet.Network().HexChainID(),
		"provider_available": c.wallet.ProviderAvailable(),
	})
}
