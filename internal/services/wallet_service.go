package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"badgehub/internal/events"
	"badgehub/internal/models"
	"badgehub/internal/wallet"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	msgInstallWallet      = "Please install a Web3 wallet like MetaMask or Universal Profile Browser Extension"
	msgWalletConnected    = "Connected to LUKSO!"
	msgWalletConnectFail  = "Failed to connect wallet"
	msgWalletDisconnected = "Wallet disconnected"
)

var errNoAccounts = errors.New("wallet returned no accounts")

// walletService implements WalletService. All state transitions go through
// commit, which holds mu while mutating and fanning out to watchers so every
// watcher sees transitions in the same order.
type walletService struct {
	provider wallet.Provider
	profiles ProfileLoader
	events   events.EventBus
	logger   *zap.Logger
	config   *WalletServiceConfig

	connectGroup singleflight.Group
	reconcileMu  sync.Mutex

	mu          sync.Mutex
	state       models.WalletState
	watchers    map[uint64]chan models.WalletState
	nextWatcher uint64
	closed      bool

	removers   []func()
	baseCtx    context.Context
	cancelBase context.CancelFunc
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// WalletServiceConfig holds session manager configuration
type WalletServiceConfig struct {
	Network          models.NetworkConfig `json:"network"`
	ReconcileTimeout time.Duration        `json:"reconcile_timeout"`
}

// DefaultWalletServiceConfig returns default session manager configuration
func DefaultWalletServiceConfig() *WalletServiceConfig {
	return &WalletServiceConfig{
		Network:          models.LuksoMainnet,
		ReconcileTimeout: 15 * time.Second,
	}
}

// NewWalletService creates a session manager. provider may be nil when no
// wallet capability is available; Connect then reports PROVIDER_UNAVAILABLE.
func NewWalletService(
	provider wallet.Provider,
	profiles ProfileLoader,
	eventBus events.EventBus,
	logger *zap.Logger,
	config *WalletServiceConfig,
) WalletService {
	if config == nil {
		config = DefaultWalletServiceConfig()
	}
	if config.ReconcileTimeout <= 0 {
		config.ReconcileTimeout = 15 * time.Second
	}
	if profiles == nil {
		profiles = NewSyntheticProfileLoader()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseCtx, cancel := context.WithCancel(context.Background())

	return &walletService{
		provider:   provider,
		profiles:   profiles,
		events:     eventBus,
		logger:     logger,
		config:     config,
		state:      models.DisconnectedWallet(),
		watchers:   make(map[uint64]chan models.WalletState),
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}
}

// ===============================
// LIFECYCLE
// ===============================

// Start reconciles with the provider once and subscribes to its account and
// network notifications. Listeners are released by Close.
func (s *walletService) Start(ctx context.Context) error {
	if s.provider == nil {
		s.logger.Info("No wallet provider configured; session stays disconnected")
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("wallet service is closed")
	}
	s.removers = append(s.removers,
		s.provider.On(wallet.EventAccountsChanged, s.onAccountsChanged),
		s.provider.On(wallet.EventChainChanged, s.onChainChanged),
	)
	s.mu.Unlock()

	if err := s.Reconcile(ctx); err != nil {
		s.logger.Warn("Initial wallet reconciliation failed", zap.Error(err))
	}
	return nil
}

// Close releases provider listeners, waits for in-flight reconciliations and
// closes every watcher channel. It is safe to call more than once.
func (s *walletService) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		removers := s.removers
		s.removers = nil
		s.mu.Unlock()

		for _, remove := range removers {
			remove()
		}
		s.cancelBase()
		s.wg.Wait()

		s.mu.Lock()
		for id, ch := range s.watchers {
			delete(s.watchers, id)
			close(ch)
		}
		s.mu.Unlock()
	})
	return nil
}

// ===============================
// COMMANDS
// ===============================

// Connect requests account access, steers the wallet onto the configured
// network and activates the first account. Concurrent calls share one attempt.
func (s *walletService) Connect(ctx context.Context) (models.WalletState, error) {
	if s.provider == nil {
		s.commit(func(st *models.WalletState) {
			msg := msgInstallWallet
			st.Error = &msg
		})
		s.publish(ctx, events.NewNotificationEvent(events.NotificationError, msgInstallWallet))
		return s.State(), NewProviderUnavailableError(msgInstallWallet)
	}

	_, err, shared := s.connectGroup.Do("connect", func() (interface{}, error) {
		return nil, s.connect(ctx)
	})
	if shared {
		s.logger.Debug("Joined in-flight wallet connect")
	}
	return s.State(), err
}

func (s *walletService) connect(ctx context.Context) error {
	s.commit(func(st *models.WalletState) {
		st.IsLoading = true
		st.Error = nil
	})

	if _, err := s.provider.RequestAccounts(ctx); err != nil {
		return s.connectFailed(ctx, "request accounts", err)
	}

	if err := s.ensureNetwork(ctx); err != nil {
		return s.connectFailed(ctx, "switch network", err)
	}

	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		return s.connectFailed(ctx, "list accounts", err)
	}
	if len(accounts) == 0 {
		return s.connectFailed(ctx, "list accounts", errNoAccounts)
	}

	account := wallet.ChecksumAddress(accounts[0])
	profile := s.loadProfile(ctx, account)

	s.commit(func(st *models.WalletState) {
		st.IsConnected = true
		st.Account = &account
		st.Profile = profile
		st.IsLoading = false
		st.Error = nil
	})

	s.logger.Info("Wallet connected",
		zap.String("account", account),
		zap.Bool("profile_loaded", profile != nil),
	)

	s.publish(ctx, events.NewWalletConnectedEvent(account))
	s.publish(ctx, events.NewNotificationEvent(events.NotificationSuccess, msgWalletConnected))
	return nil
}

// ensureNetwork selects the target chain, registering it once with the
// wallet if the wallet does not know it.
func (s *walletService) ensureNetwork(ctx context.Context) error {
	chainID := s.config.Network.HexChainID()

	err := s.provider.SwitchChain(ctx, chainID)
	if err == nil || !wallet.IsUnrecognizedChain(err) {
		return err
	}

	s.logger.Info("Wallet does not know target network, adding it",
		zap.String("chain_id", chainID),
		zap.String("chain_name", s.config.Network.ChainName),
	)
	if err := s.provider.AddChain(ctx, s.config.Network); err != nil {
		return err
	}
	return s.provider.SwitchChain(ctx, chainID)
}

func (s *walletService) connectFailed(ctx context.Context, step string, err error) error {
	msg := providerMessage(err)

	s.commit(func(st *models.WalletState) {
		*st = models.DisconnectedWallet()
		st.Error = &msg
	})

	s.logger.Warn("Wallet connect failed", zap.String("step", step), zap.Error(err))
	s.publish(ctx, events.NewNotificationEvent(events.NotificationError, msgWalletConnectFail))
	return NewConnectionError(msg, err)
}

// Disconnect resets the session. It always succeeds.
func (s *walletService) Disconnect(ctx context.Context) models.WalletState {
	s.disconnect(ctx, "user")
	return s.State()
}

func (s *walletService) disconnect(ctx context.Context, reason string) {
	s.commit(func(st *models.WalletState) {
		*st = models.DisconnectedWallet()
	})

	s.logger.Info("Wallet disconnected", zap.String("reason", reason))
	s.publish(ctx, events.NewWalletDisconnectedEvent(reason))
	s.publish(ctx, events.NewNotificationEvent(events.NotificationSuccess, msgWalletDisconnected))
}

// Reconcile re-reads the provider's accounts: none disconnects a connected
// session, otherwise the first account becomes active and its profile is
// reloaded.
func (s *walletService) Reconcile(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}

	s.reconcileMu.Lock()
	defer s.reconcileMu.Unlock()

	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		return err
	}

	if len(accounts) == 0 {
		if s.State().IsConnected {
			s.disconnect(ctx, "no accounts")
		}
		return nil
	}

	account := wallet.ChecksumAddress(accounts[0])
	profile := s.loadProfile(ctx, account)

	var previous string
	var switched bool
	s.commit(func(st *models.WalletState) {
		if st.Account != nil {
			previous = *st.Account
		}
		switched = !st.IsConnected || !strings.EqualFold(previous, account)

		st.IsConnected = true
		st.Account = &account
		if profile != nil {
			st.Profile = profile
		} else if switched {
			st.Profile = nil
		}
	})

	if switched {
		s.logger.Info("Wallet account changed",
			zap.String("previous", previous),
			zap.String("account", account),
		)
		s.publish(ctx, events.NewWalletAccountChangedEvent(previous, account))
	}
	return nil
}

// ===============================
// QUERIES
// ===============================

// State returns a deep copy of the current session.
func (s *walletService) State() models.WalletState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Network returns the network every connection is steered onto.
func (s *walletService) Network() models.NetworkConfig {
	return s.config.Network
}

// ProviderAvailable reports whether a wallet capability is configured.
func (s *walletService) ProviderAvailable() bool {
	return s.provider != nil
}

// Watch returns a channel carrying the latest session state. The current
// state is delivered immediately; slow readers only ever miss intermediate
// states, never the latest one. cancel is idempotent; Close also closes
// the channel.
func (s *walletService) Watch() (<-chan models.WalletState, func()) {
	ch := make(chan models.WalletState, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.nextWatcher++
	id := s.nextWatcher
	s.watchers[id] = ch
	ch <- s.state.Clone()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// ===============================
// HELPER METHODS
// ===============================

// commit applies fn to the state and pushes the result to every watcher.
func (s *walletService) commit(fn func(*models.WalletState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	if s.state.Account == nil {
		s.state.IsConnected = false
	}

	for _, ch := range s.watchers {
		snapshot := s.state.Clone()
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// loadProfile is best-effort: failures are logged and yield nil.
func (s *walletService) loadProfile(ctx context.Context, address string) *models.Profile {
	profile, err := s.profiles.LoadProfile(ctx, address)
	if err != nil {
		s.logger.Warn("Profile load failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return nil
	}
	return profile
}

func (s *walletService) onAccountsChanged(n wallet.Notification) {
	if len(n.Accounts) == 0 {
		s.background(func(ctx context.Context) {
			s.disconnect(ctx, "accounts changed")
		})
		return
	}
	s.background(s.reconcileFromNotification)
}

func (s *walletService) onChainChanged(n wallet.Notification) {
	s.background(s.reconcileFromNotification)
}

func (s *walletService) reconcileFromNotification(ctx context.Context) {
	if err := s.Reconcile(ctx); err != nil {
		s.logger.Warn("Wallet reconciliation failed", zap.Error(err))
	}
}

// background runs fn off the provider's delivery goroutine, since fn may
// call back into the provider.
func (s *walletService) background(fn func(ctx context.Context)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.baseCtx, s.config.ReconcileTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *walletService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish wallet event",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}

// providerMessage prefers the wallet's own message over the wrapped error text.
func providerMessage(err error) string {
	var rpcErr *wallet.RPCError
	if errors.As(err, &rpcErr) && rpcErr.Message != "" {
		return rpcErr.Message
	}
	return messageOf(err, msgWalletConnectFail)
}
