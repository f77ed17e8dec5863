package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"badgehub/internal/cache"
	"badgehub/internal/models"
	"badgehub/internal/wallet"

	"go.uber.org/zap"
)

// ProfileLoader looks up the descriptive profile of an account.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, address string) (*models.Profile, error)
}

// ProfileLoaderFunc adapts a function to ProfileLoader.
type ProfileLoaderFunc func(ctx context.Context, address string) (*models.Profile, error)

func (f ProfileLoaderFunc) LoadProfile(ctx context.Context, address string) (*models.Profile, error) {
	return f(ctx, address)
}

// SyntheticProfileLoader derives a placeholder profile from the address
// itself; no network lookup is made.
type SyntheticProfileLoader struct {
	AvatarBaseURL string
}

// NewSyntheticProfileLoader returns a loader using the dicebear shapes avatar set.
func NewSyntheticProfileLoader() *SyntheticProfileLoader {
	return &SyntheticProfileLoader{AvatarBaseURL: "https://api.dicebear.com/7.x/shapes/svg"}
}

func (l *SyntheticProfileLoader) LoadProfile(ctx context.Context, address string) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}
	return &models.Profile{
		Address:      address,
		Name:         "Profile " + wallet.ShortAddress(address),
		Description:  "Universal Profile on LUKSO",
		ProfileImage: l.AvatarBaseURL + "?seed=" + url.QueryEscape(address),
	}, nil
}

// CachedProfileLoader memoises another loader in a cache.Cache keyed by the
// lower-cased address.
type CachedProfileLoader struct {
	next   ProfileLoader
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProfileLoader wraps next. A zero ttl uses the cache default.
func NewCachedProfileLoader(next ProfileLoader, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedProfileLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProfileLoader{next: next, cache: c, ttl: ttl, logger: logger}
}

func (l *CachedProfileLoader) LoadProfile(ctx context.Context, address string) (*models.Profile, error) {
	key := profileCacheKey(address)

	if raw, ok := l.cache.Get(ctx, key); ok {
		var profile models.Profile
		if err := json.Unmarshal(raw, &profile); err == nil {
			return &profile, nil
		}
		l.logger.Warn("Discarding undecodable cached profile", zap.String("key", key))
	}

	profile, err := l.next.LoadProfile(ctx, address)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(profile); err == nil {
		if err := l.cache.Set(ctx, key, raw, l.ttl); err != nil {
			l.logger.Warn("Failed to cache profile", zap.String("key", key), zap.Error(err))
		}
	}
	return profile, nil
}

func profileCacheKey(address string) string {
	return "profile:" + strings.ToLower(address)
}
