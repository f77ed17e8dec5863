// Package wallet talks to an EIP-1193 style wallet provider: account access,
// network selection and the accountsChanged / chainChanged notifications.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"badgehub/internal/models"
)

// Event names a provider notification.
type Event string

const (
	EventAccountsChanged Event = "accountsChanged"
	EventChainChanged    Event = "chainChanged"
)

// Notification is a provider-pushed event. Accounts is set for
// accountsChanged, ChainID for chainChanged.
type Notification struct {
	Event    Event
	Accounts []string
	ChainID  string
}

// Listener receives provider notifications.
type Listener func(Notification)

// Provider is the wallet capability the session manager depends on.
type Provider interface {
	// RequestAccounts asks the user to grant account access (eth_requestAccounts).
	RequestAccounts(ctx context.Context) ([]string, error)
	// Accounts lists the currently exposed accounts without prompting (eth_accounts).
	Accounts(ctx context.Context) ([]string, error)
	// SwitchChain selects a network by 0x-hex chain id (wallet_switchEthereumChain).
	SwitchChain(ctx context.Context, chainID string) error
	// AddChain registers a network with the wallet (wallet_addEthereumChain).
	AddChain(ctx context.Context, network models.NetworkConfig) error
	// On registers l for event. The returned func removes it and is safe to
	// call more than once.
	On(event Event, l Listener) (remove func())
}

// Provider error codes defined by EIP-1193 and EIP-3326.
const (
	CodeUserRejected       = 4001
	CodeUnauthorized       = 4100
	CodeUnsupportedMethod  = 4200
	CodeDisconnected       = 4900
	CodeUnrecognizedChain  = 4902
	CodeInternalJSONRPC    = -32603
	CodeMethodNotFoundJSON = -32601
)

// RPCError is an error reported by the provider.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet rpc error %d: %s", e.Code, e.Message)
}

// HasCode reports whether err is an RPCError with the given code.
func HasCode(err error, code int) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

// IsUnrecognizedChain reports whether the wallet did not know the requested chain.
func IsUnrecognizedChain(err error) bool {
	return HasCode(err, CodeUnrecognizedChain)
}

// Listeners is a concurrency-safe listener registry keyed by event.
// The zero value is ready to use.
type Listeners struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[Event]map[uint64]Listener
	order  map[Event][]uint64
}

// On registers l and returns an idempotent remove func.
func (s *Listeners) On(event Event, l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byID == nil {
		s.byID = make(map[Event]map[uint64]Listener)
		s.order = make(map[Event][]uint64)
	}
	if s.byID[event] == nil {
		s.byID[event] = make(map[uint64]Listener)
	}

	s.nextID++
	id := s.nextID
	s.byID[event][id] = l
	s.order[event] = append(s.order[event], id)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(event, id) })
	}
}

func (s *Listeners) remove(event Event, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID[event], id)
	ids := s.order[event]
	for i, v := range ids {
		if v == id {
			s.order[event] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

// Emit delivers n to every listener of n.Event in registration order.
// Listeners run outside the registry lock.
func (s *Listeners) Emit(n Notification) {
	s.mu.Lock()
	targets := make([]Listener, 0, len(s.order[n.Event]))
	for _, id := range s.order[n.Event] {
		targets = append(targets, s.byID[n.Event][id])
	}
	s.mu.Unlock()

	for _, l := range targets {
		l(n)
	}
}

// Count returns how many listeners are registered for event.
func (s *Listeners) Count(event Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order[event])
}
