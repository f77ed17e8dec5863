package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"badgehub/internal/cache"
	"badgehub/internal/config"
	"badgehub/internal/events"
	"badgehub/internal/media"
	"badgehub/internal/repositories"
	"badgehub/internal/wallet"

	"go.uber.org/zap"
)

// ServiceCollection holds every service with its dependencies wired.
type ServiceCollection struct {
	// Core Services
	BadgeService  BadgeService  `json:"-"`
	WalletService WalletService `json:"-"`
	MediaService  MediaService  `json:"-"`

	// Repository Collection
	Repositories *repositories.Collection `json:"-"`

	// Infrastructure Components
	Cache    cache.Cache     `json:"-"`
	EventBus events.EventBus `json:"-"`
	Provider wallet.Provider `json:"-"`
	Logger   *zap.Logger     `json:"-"`
	Config   *config.Config  `json:"-"`

	bridge    *wallet.BridgeProvider
	startTime time.Time
	mu        sync.Mutex
	started   bool
	shutdown  bool
}

// ServiceHealth represents the health status of the service collection
type ServiceHealth struct {
	Status       string                   `json:"status"`
	Timestamp    time.Time                `json:"timestamp"`
	Dependencies map[string]ServiceStatus `json:"dependencies"`
	Uptime       time.Duration            `json:"uptime"`
	Issues       []string                 `json:"issues,omitempty"`
}

// ServiceStatus represents the status of an individual dependency
type ServiceStatus struct {
	Name         string                 `json:"name"`
	Status       string                 `json:"status"` // healthy, degraded, unhealthy, disabled
	LastCheck    time.Time              `json:"last_check"`
	ResponseTime time.Duration          `json:"response_time"`
	Error        string                 `json:"error,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Option customises NewServiceCollection.
type Option func(*ServiceCollection)

// WithWalletProvider uses provider instead of dialing WALLET_BRIDGE_URL.
func WithWalletProvider(provider wallet.Provider) Option {
	return func(sc *ServiceCollection) { sc.Provider = provider }
}

// WithImageStore uses store instead of the configured one.
func WithImageStore(store media.ImageStore) Option {
	return func(sc *ServiceCollection) { sc.MediaService = NewMediaService(store, sc.Logger) }
}

// NewServiceCollection builds the infrastructure, repositories and services
// described by cfg.
func NewServiceCollection(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*ServiceCollection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	collection := &ServiceCollection{
		Config:    cfg,
		Logger:    logger,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(collection)
	}

	if err := collection.initializeInfrastructure(ctx); err != nil {
		collection.closeInfrastructure()
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	if err := collection.initializeRepositories(); err != nil {
		collection.closeInfrastructure()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := collection.initializeServices(); err != nil {
		collection.closeInfrastructure()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("Service collection initialized successfully",
		zap.Bool("wallet_provider", collection.Provider != nil),
		zap.String("image_store", collection.MediaService.StoreName()),
	)
	return collection, nil
}

// ===============================
// INITIALIZATION METHODS
// ===============================

func (sc *ServiceCollection) initializeInfrastructure(ctx context.Context) error {
	sc.Logger.Info("Initializing infrastructure components")

	c, err := cache.NewCache(&cache.Config{
		Provider:        sc.Config.Cache.Provider,
		TTL:             sc.Config.Cache.TTL,
		MaxKeys:         sc.Config.Cache.MaxKeys,
		CleanupInterval: sc.Config.Cache.CleanupInterval,
		KeyPrefix:       "badgehub:",
		RedisURL:        sc.Config.Cache.RedisURL,
		RedisDB:         sc.Config.Cache.RedisDB,
		RedisPassword:   sc.Config.Cache.RedisPassword,
		PoolSize:        sc.Config.Cache.PoolSize,
	}, sc.Logger)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	sc.Cache = c

	sc.EventBus = events.NewInMemoryEventBus(events.DefaultEventBusConfig(), sc.Logger)

	if sc.Provider == nil && sc.Config.Wallet.BridgeURL != "" {
		bridgeCfg := wallet.DefaultBridgeConfig(sc.Config.Wallet.BridgeURL)
		bridgeCfg.DialTimeout = sc.Config.Wallet.DialTimeout
		bridgeCfg.RequestTimeout = sc.Config.Wallet.RequestTimeout
		bridgeCfg.MaxDialRetries = sc.Config.Wallet.MaxDialRetries

		bridge, err := wallet.DialBridge(ctx, bridgeCfg, sc.Logger)
		if err != nil {
			// The session simply has no provider; Connect reports it.
			sc.Logger.Warn("Wallet bridge unavailable", zap.Error(err))
		} else {
			sc.bridge = bridge
			sc.Provider = bridge
		}
	}

	if sc.MediaService == nil {
		store, err := sc.newImageStore()
		if err != nil {
			return fmt.Errorf("image store: %w", err)
		}
		sc.MediaService = NewMediaService(store, sc.Logger)
	}

	sc.Logger.Info("Infrastructure components initialized")
	return nil
}

func (sc *ServiceCollection) newImageStore() (media.ImageStore, error) {
	limits := media.DefaultLimits()
	if sc.Config.Cloudinary.MaxFileSize > 0 {
		limits.MaxFileSize = sc.Config.Cloudinary.MaxFileSize
	}
	if len(sc.Config.Cloudinary.AllowedFormats) > 0 {
		limits.AllowedExtensions = sc.Config.Cloudinary.AllowedFormats
	}
	if !sc.Config.Cloudinary.Enabled() {
		return media.NewPlaceholderStore(limits, sc.Logger), nil
	}
	return media.NewCloudinaryStore(media.CloudinaryConfig{
		CloudName:  sc.Config.Cloudinary.CloudName,
		APIKey:     sc.Config.Cloudinary.APIKey,
		APISecret:  sc.Config.Cloudinary.APISecret,
		Folder:     sc.Config.Cloudinary.Folder,
		MaxRetries: sc.Config.Cloudinary.MaxRetries,
		Limits:     limits,
	}, sc.Logger)
}

func (sc *ServiceCollection) initializeRepositories() error {
	repos, err := repositories.NewCollection(sc.Logger, &repositories.RepositoryConfig{
		SeedFile: sc.Config.Registry.SeedFile,
	})
	if err != nil {
		return err
	}
	sc.Repositories = repos
	return nil
}

func (sc *ServiceCollection) initializeServices() error {
	badgeConfig := DefaultBadgeServiceConfig()
	badgeConfig.CreateDelay = sc.Config.Registry.CreateDelay
	badgeConfig.AwardDelay = sc.Config.Registry.AwardDelay
	badgeConfig.StrictAward = sc.Config.Registry.StrictAward

	sc.BadgeService = NewBadgeService(sc.Repositories.Badge, nil, sc.EventBus, sc.Logger, badgeConfig)

	walletConfig := DefaultWalletServiceConfig()
	walletConfig.ReconcileTimeout = sc.Config.Wallet.ReconcileTimeout

	profiles := NewCachedProfileLoader(NewSyntheticProfileLoader(), sc.Cache, sc.Config.Wallet.ProfileCacheTTL, sc.Logger)
	sc.WalletService = NewWalletService(sc.Provider, profiles, sc.EventBus, sc.Logger, walletConfig)

	sc.Logger.Info("All services initialized")
	return nil
}

// ===============================
// SERVICE LIFECYCLE MANAGEMENT
// ===============================

// Start subscribes the wallet session to provider notifications and
// reconciles it once.
func (sc *ServiceCollection) Start(ctx context.Context) error {
	sc.mu.Lock()
	if sc.started || sc.shutdown {
		sc.mu.Unlock()
		return fmt.Errorf("service collection already started or shut down")
	}
	sc.started = true
	sc.mu.Unlock()

	if err := sc.WalletService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start wallet service: %w", err)
	}

	sc.Logger.Info("Service collection started successfully")
	return nil
}

// Shutdown stops the wallet session and releases infrastructure. It is safe
// to call more than once.
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	if sc.shutdown {
		sc.mu.Unlock()
		return nil
	}
	sc.shutdown = true
	sc.mu.Unlock()

	sc.Logger.Info("Shutting down service collection")

	done := make(chan struct{})
	go func() {
		defer close(done)
		sc.WalletService.Close()
	}()

	var shutdownErrors []error
	select {
	case <-done:
	case <-ctx.Done():
		shutdownErrors = append(shutdownErrors, fmt.Errorf("wallet service: %w", ctx.Err()))
	}

	shutdownErrors = append(shutdownErrors, sc.closeInfrastructure()...)

	if err := errors.Join(shutdownErrors...); err != nil {
		sc.Logger.Error("Errors occurred during shutdown", zap.Error(err))
		return err
	}
	sc.Logger.Info("Service collection shutdown completed successfully")
	return nil
}

func (sc *ServiceCollection) closeInfrastructure() []error {
	var errs []error
	if sc.bridge != nil {
		if err := sc.bridge.Close(); err != nil {
			errs = append(errs, fmt.Errorf("wallet bridge: %w", err))
		}
	}
	if sc.Cache != nil {
		if err := sc.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}
	}
	return errs
}

// ===============================
// HEALTH AND MONITORING
// ===============================

// HealthCheck reports on the cache, the event bus and the wallet bridge. A
// missing wallet provider is reported as disabled, not as a failure.
func (sc *ServiceCollection) HealthCheck(ctx context.Context) *ServiceHealth {
	health := &ServiceHealth{
		Status:       "healthy",
		Timestamp:    time.Now(),
		Dependencies: make(map[string]ServiceStatus),
		Uptime:       time.Since(sc.startTime),
	}

	record := func(status ServiceStatus) {
		health.Dependencies[status.Name] = status
		if status.Status == "unhealthy" {
			health.Status = "degraded"
			health.Issues = append(health.Issues, fmt.Sprintf("%s: %s", status.Name, status.Error))
		}
	}

	record(sc.checkCacheHealth(ctx))
	record(sc.checkEventBusHealth())
	record(sc.checkWalletHealth())

	return health
}

func (sc *ServiceCollection) checkCacheHealth(ctx context.Context) ServiceStatus {
	start := time.Now()
	status := ServiceStatus{Name: "cache", Status: "healthy", LastCheck: start}

	if err := sc.Cache.Health(ctx); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else if stats, err := sc.Cache.Stats(ctx); err == nil {
		status.Metadata = map[string]interface{}{
			"provider":  stats.Provider,
			"keys":      stats.Keys,
			"hit_ratio": stats.HitRatio,
		}
	}
	status.ResponseTime = time.Since(start)
	return status
}

func (sc *ServiceCollection) checkEventBusHealth() ServiceStatus {
	stats := sc.EventBus.Stats()
	return ServiceStatus{
		Name:      "events",
		Status:    "healthy",
		LastCheck: time.Now(),
		Metadata: map[string]interface{}{
			"published": stats.EventsPublished,
			"failed":    stats.EventsFailed,
			"handlers":  stats.HandlersCount,
		},
	}
}

func (sc *ServiceCollection) checkWalletHealth() ServiceStatus {
	status := ServiceStatus{Name: "wallet", Status: "healthy", LastCheck: time.Now()}
	switch {
	case sc.Provider == nil:
		status.Status = "disabled"
	case sc.bridge != nil:
		select {
		case <-sc.bridge.Done():
			status.Status = "unhealthy"
			status.Error = "wallet bridge connection closed"
		default:
		}
	}
	state := sc.WalletService.State()
	status.Metadata = map[string]interface{}{"connected": state.IsConnected}
	return status
}
