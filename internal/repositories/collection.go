package repositories

import (
	"fmt"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	Badge BadgeRepository

	logger *zap.Logger
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	// SeedFile is an optional TOML badge catalog. When empty the default
	// demonstration badges are used.
	SeedFile string
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(logger *zap.Logger, config *RepositoryConfig) (*Collection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = &RepositoryConfig{}
	}

	seed := DefaultSeedBadges()
	if config.SeedFile != "" {
		loaded, err := LoadSeedFile(config.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load badge seed: %w", err)
		}
		seed = loaded
		logger.Info("Loaded badge seed file",
			zap.String("path", config.SeedFile),
			zap.Int("badges", len(seed)),
		)
	}

	badges, err := NewMemoryBadgeRepository(seed, logger.Named("badges"))
	if err != nil {
		return nil, fmt.Errorf("failed to create badge repository: %w", err)
	}

	return &Collection{
		Badge:  badges,
		logger: logger,
	}, nil
}
