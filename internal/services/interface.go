package services

import (
	"context"
	"mime/multipart"

	"badgehub/internal/media"
	"badgehub/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// BadgeService owns the badge registry: creation, awarding and the queries
// the gallery and dashboard views need.
type BadgeService interface {
	// Commands
	CreateBadge(ctx context.Context, form *models.BadgeCreationForm, creator string) (*models.Badge, error)
	AwardBadge(ctx context.Context, badgeID, recipient string) error

	// Queries
	GetBadgesByCreator(ctx context.Context, creator string) ([]models.Badge, error)
	ListBadges(ctx context.Context, filter BadgeFilter) ([]models.Badge, error)
	GetBadge(ctx context.Context, id string) (*models.Badge, error)
	GetDashboard(ctx context.Context, address string) (*models.CreatorDashboard, error)
	State(ctx context.Context) (*models.RegistryState, error)
}

// WalletService owns the wallet session: connecting, network steering and
// reacting to provider notifications.
type WalletService interface {
	// Lifecycle
	Start(ctx context.Context) error
	Close() error

	// Session
	Connect(ctx context.Context) (models.WalletState, error)
	Disconnect(ctx context.Context) models.WalletState
	Reconcile(ctx context.Context) error

	// Observation
	State() models.WalletState
	Watch() (<-chan models.WalletState, func())
	Network() models.NetworkConfig
	ProviderAvailable() bool
}

// MediaService accepts badge artwork.
type MediaService interface {
	UploadBadgeImage(ctx context.Context, file *multipart.FileHeader) (*media.UploadResult, error)
	PlaceholderImage() string
	StoreName() string
}
