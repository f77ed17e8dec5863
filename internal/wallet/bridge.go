package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"badgehub/internal/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrBridgeClosed is returned by calls made after the bridge connection ended.
var ErrBridgeClosed = errors.New("wallet bridge closed")

// BridgeConfig configures a BridgeProvider.
type BridgeConfig struct {
	URL            string
	Header         http.Header
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	MaxDialRetries int
}

// DefaultBridgeConfig returns sane defaults for url.
func DefaultBridgeConfig(url string) BridgeConfig {
	return BridgeConfig{
		URL:            url,
		DialTimeout:    10 * time.Second,
		RequestTimeout: 30 * time.Second,
		MaxDialRetries: 3,
	}
}

// rpcMessage covers requests, responses and notifications on the wire.
type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// BridgeProvider is a Provider backed by a JSON-RPC 2.0 WebSocket connection
// to a wallet bridge. Responses are matched to calls by id; messages with a
// method and no id are provider notifications.
type BridgeProvider struct {
	cfg    BridgeConfig
	conn   *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex
	nextID  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan rpcMessage
	err     error

	listeners Listeners
	done      chan struct{}
	closeOnce sync.Once
}

var _ Provider = (*BridgeProvider)(nil)

// DialBridge connects to the bridge at cfg.URL, retrying with exponential
// backoff, and starts the read loop.
func DialBridge(ctx context.Context, cfg BridgeConfig, logger *zap.Logger) (*BridgeProvider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("wallet bridge url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.DialTimeout,
	}

	var conn *websocket.Conn
	operation := func() error {
		c, resp, err := dialer.DialContext(ctx, cfg.URL, cfg.Header)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		conn = c
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	err := backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxDialRetries)), ctx),
		func(err error, d time.Duration) {
			logger.Warn("Wallet bridge dial failed, retrying",
				zap.String("url", cfg.URL),
				zap.Duration("backoff", d),
				zap.Error(err),
			)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("dial wallet bridge: %w", err)
	}

	p := &BridgeProvider{
		cfg:     cfg,
		conn:    conn,
		logger:  logger,
		pending: make(map[uint64]chan rpcMessage),
		done:    make(chan struct{}),
	}
	go p.readLoop()

	logger.Info("Wallet bridge connected", zap.String("url", cfg.URL))
	return p, nil
}

// RequestAccounts implements Provider.
func (p *BridgeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_requestAccounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Accounts implements Provider.
func (p *BridgeProvider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SwitchChain implements Provider.
func (p *BridgeProvider) SwitchChain(ctx context.Context, chainID string) error {
	params := []map[string]string{{"chainId": chainID}}
	return p.call(ctx, "wallet_switchEthereumChain", params, nil)
}

type addChainParams struct {
	ChainID           string                `json:"chainId"`
	ChainName         string                `json:"chainName"`
	NativeCurrency    models.NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string              `json:"rpcUrls"`
	BlockExplorerURLs []string              `json:"blockExplorerUrls,omitempty"`
	IconURLs          []string              `json:"iconUrls,omitempty"`
}

// AddChain implements Provider.
func (p *BridgeProvider) AddChain(ctx context.Context, network models.NetworkConfig) error {
	params := []addChainParams{{
		ChainID:           network.HexChainID(),
		ChainName:         network.ChainName,
		NativeCurrency:    network.NativeCurrency,
		RPCURLs:           network.RPCURLs,
		BlockExplorerURLs: network.BlockExplorerURLs,
		IconURLs:          network.IconURLs,
	}}
	return p.call(ctx, "wallet_addEthereumChain", params, nil)
}

// On implements Provider.
func (p *BridgeProvider) On(event Event, l Listener) func() {
	return p.listeners.On(event, l)
}

// Done is closed once the connection has ended.
func (p *BridgeProvider) Done() <-chan struct{} {
	return p.done
}

// Close ends the connection and waits for the read loop to exit.
func (p *BridgeProvider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.writeMu.Lock()
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		p.writeMu.Unlock()
		err = p.conn.Close()
	})
	<-p.done
	return err
}

func (p *BridgeProvider) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	id := p.nextID.Add(1)
	req := rpcMessage{JSONRPC: "2.0", ID: &id, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode %s params: %w", method, err)
		}
		req.Params = raw
	}

	ch := make(chan rpcMessage, 1)
	p.mu.Lock()
	if p.err != nil {
		p.mu.Unlock()
		return p.err
	}
	p.pending[id] = ch
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	p.writeMu.Lock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = p.conn.SetWriteDeadline(deadline)
	}
	err := p.conn.WriteJSON(req)
	p.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}

	p.logger.Debug("Wallet request sent", zap.String("method", method), zap.Uint64("id", id))

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if out != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, out); err != nil {
				return fmt.Errorf("decode %s result: %w", method, err)
			}
		}
		return nil
	case <-p.done:
		return p.closedErr()
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", method, ctx.Err())
	}
}

func (p *BridgeProvider) readLoop() {
	defer close(p.done)

	for {
		var msg rpcMessage
		if err := p.conn.ReadJSON(&msg); err != nil {
			p.fail(err)
			return
		}

		switch {
		case msg.ID != nil && msg.Method == "":
			p.mu.Lock()
			ch, ok := p.pending[*msg.ID]
			p.mu.Unlock()
			if !ok {
				p.logger.Debug("Dropping response for unknown request", zap.Uint64("id", *msg.ID))
				continue
			}
			select {
			case ch <- msg:
			default:
			}
		case msg.Method != "":
			p.dispatch(msg)
		}
	}
}

func (p *BridgeProvider) dispatch(msg rpcMessage) {
	n := Notification{Event: Event(msg.Method)}

	switch n.Event {
	case EventAccountsChanged:
		if err := json.Unmarshal(msg.Params, &n.Accounts); err != nil {
			p.logger.Warn("Malformed accountsChanged notification", zap.Error(err))
			return
		}
	case EventChainChanged:
		if err := json.Unmarshal(msg.Params, &n.ChainID); err != nil {
			var wrapped []string
			if err2 := json.Unmarshal(msg.Params, &wrapped); err2 != nil || len(wrapped) == 0 {
				p.logger.Warn("Malformed chainChanged notification", zap.Error(err))
				return
			}
			n.ChainID = wrapped[0]
		}
	default:
		p.logger.Debug("Ignoring wallet notification", zap.String("method", msg.Method))
		return
	}

	p.listeners.Emit(n)
}

func (p *BridgeProvider) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return
	}
	p.err = ErrBridgeClosed
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !errors.Is(err, net.ErrClosed) {
		p.logger.Warn("Wallet bridge connection lost", zap.Error(err))
		p.err = fmt.Errorf("%w: %v", ErrBridgeClosed, err)
	}
}

func (p *BridgeProvider) closedErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	return ErrBridgeClosed
}
