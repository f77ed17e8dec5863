package models

import "fmt"

// Profile is the best-effort descriptive record for a connected account.
type Profile struct {
	Address         string `json:"address"`
	Name            string `json:"name,omitempty"`
	Description     string `json:"description,omitempty"`
	ProfileImage    string `json:"profile_image,omitempty"`
	BackgroundImage string `json:"background_image,omitempty"`
}

// WalletState is the wallet-connection snapshot. Account is non-nil iff
// IsConnected is true.
type WalletState struct {
	IsConnected bool     `json:"is_connected"`
	Account     *string  `json:"account"`
	Profile     *Profile `json:"profile"`
	IsLoading   bool     `json:"is_loading"`
	Error       *string  `json:"error"`
}

// DisconnectedWallet returns the initial, fully reset state.
func DisconnectedWallet() WalletState {
	return WalletState{}
}

// Clone returns a deep copy so callers cannot mutate shared pointers.
func (s WalletState) Clone() WalletState {
	out := s
	if s.Account != nil {
		account := *s.Account
		out.Account = &account
	}
	if s.Profile != nil {
		profile := *s.Profile
		out.Profile = &profile
	}
	if s.Error != nil {
		msg := *s.Error
		out.Error = &msg
	}
	return out
}

// NativeCurrency describes the chain's gas token.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// NetworkConfig holds the fixed parameters of the target network.
type NetworkConfig struct {
	ChainID           int64          `json:"chain_id"`
	ChainName         string         `json:"chain_name"`
	NativeCurrency    NativeCurrency `json:"native_currency"`
	RPCURLs           []string       `json:"rpc_urls"`
	BlockExplorerURLs []string       `json:"block_explorer_urls"`
	IconURLs          []string       `json:"icon_urls"`
}

// HexChainID renders the chain id the way wallet providers expect it.
func (n NetworkConfig) HexChainID() string {
	return fmt.Sprintf("0x%x", n.ChainID)
}

// LuksoMainnet is the network every connection is steered onto.
var LuksoMainnet = NetworkConfig{
	ChainID:   42,
	ChainName: "LUKSO Mainnet",
	NativeCurrency: NativeCurrency{
		Name:     "LYX",
		Symbol:   "LYX",
		Decimals: 18,
	},
	RPCURLs:           []string{"https://rpc.lukso.network"},
	BlockExplorerURLs: []string{"https://explorer.execution.mainnet.lukso.network"},
	IconURLs:          []string{"https://docs.lukso.tech/img/lukso-logo.png"},
}
