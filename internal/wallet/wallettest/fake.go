// Package wallettest provides an in-memory wallet.Provider for tests.
package wallettest

import (
	"context"
	"sync"

	"badgehub/internal/models"
	"badgehub/internal/wallet"
)

// FakeProvider is a scriptable wallet.Provider. Set the exported error
// fields to make the matching call fail; SwitchErrs is consumed one entry
// per SwitchChain call before falling back to SwitchErr.
type FakeProvider struct {
	mu sync.Mutex

	accounts []string

	RequestErr  error
	AccountsErr error
	SwitchErr   error
	SwitchErrs  []error
	AddErr      error

	// Block, when non-nil, is received from before RequestAccounts returns.
	Block chan struct{}

	calls  map[string]int
	chains []string
	added  []models.NetworkConfig

	listeners wallet.Listeners
}

var _ wallet.Provider = (*FakeProvider)(nil)

// NewFakeProvider returns a provider exposing accounts.
func NewFakeProvider(accounts ...string) *FakeProvider {
	return &FakeProvider{
		accounts: append([]string(nil), accounts...),
		calls:    make(map[string]int),
	}
}

// SetAccounts replaces the exposed accounts without notifying listeners.
func (f *FakeProvider) SetAccounts(accounts ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = append([]string(nil), accounts...)
}

// ChangeAccounts replaces the exposed accounts and emits accountsChanged.
func (f *FakeProvider) ChangeAccounts(accounts ...string) {
	f.SetAccounts(accounts...)
	f.listeners.Emit(wallet.Notification{
		Event:    wallet.EventAccountsChanged,
		Accounts: append([]string(nil), accounts...),
	})
}

// ChangeChain emits chainChanged.
func (f *FakeProvider) ChangeChain(chainID string) {
	f.listeners.Emit(wallet.Notification{Event: wallet.EventChainChanged, ChainID: chainID})
}

// Calls returns how many times method was invoked.
func (f *FakeProvider) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// SwitchedTo returns every chain id passed to SwitchChain.
func (f *FakeProvider) SwitchedTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.chains...)
}

// Added returns every network passed to AddChain.
func (f *FakeProvider) Added() []models.NetworkConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.NetworkConfig(nil), f.added...)
}

// ListenerCount returns the number of registered listeners for event.
func (f *FakeProvider) ListenerCount(event wallet.Event) int {
	return f.listeners.Count(event)
}

func (f *FakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.calls["eth_requestAccounts"]++
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RequestErr != nil {
		return nil, f.RequestErr
	}
	return append([]string(nil), f.accounts...), nil
}

func (f *FakeProvider) Accounts(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["eth_accounts"]++
	if f.AccountsErr != nil {
		return nil, f.AccountsErr
	}
	return append([]string(nil), f.accounts...), nil
}

func (f *FakeProvider) SwitchChain(ctx context.Context, chainID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["wallet_switchEthereumChain"]++
	f.chains = append(f.chains, chainID)
	if len(f.SwitchErrs) > 0 {
		err := f.SwitchErrs[0]
		f.SwitchErrs = f.SwitchErrs[1:]
		return err
	}
	return f.SwitchErr
}

func (f *FakeProvider) AddChain(ctx context.Context, network models.NetworkConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["wallet_addEthereumChain"]++
	f.added = append(f.added, network)
	return f.AddErr
}

func (f *FakeProvider) On(event wallet.Event, l wallet.Listener) func() {
	return f.listeners.On(event, l)
}
