package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"badgehub/internal/events"
	"badgehub/internal/models"
	"badgehub/internal/repositories"
	"badgehub/internal/validation"

	"go.uber.org/zap"
)

const (
	msgBadgeCreated      = "Badge created successfully!"
	msgBadgeCreateFailed = "Failed to create badge"
	msgBadgeAwarded      = "Badge awarded successfully!"
	msgBadgeAwardFailed  = "Failed to award badge"

	maxIDAttempts = 5
)

// badgeService implements BadgeService over a BadgeRepository.
type badgeService struct {
	repo      repositories.BadgeRepository
	registrar Registrar
	events    events.EventBus
	ids       *IDGenerator
	logger    *zap.Logger
	config    *BadgeServiceConfig

	mu        sync.Mutex
	inFlight  int
	lastError *string
}

// BadgeServiceConfig holds badge registry configuration
type BadgeServiceConfig struct {
	CreateDelay time.Duration `json:"create_delay"`
	AwardDelay  time.Duration `json:"award_delay"`

	// StrictAward makes awarding an unknown id fail with NOT_FOUND instead of
	// succeeding without effect.
	StrictAward bool `json:"strict_award"`

	Clock func() time.Time `json:"-"`
}

// DefaultBadgeServiceConfig returns default badge registry configuration
func DefaultBadgeServiceConfig() *BadgeServiceConfig {
	return &BadgeServiceConfig{
		CreateDelay: 2 * time.Second,
		AwardDelay:  1500 * time.Millisecond,
		Clock:       time.Now,
	}
}

// NewBadgeService creates a badge registry. A nil registrar uses a
// SimulatedRegistrar with the configured delays.
func NewBadgeService(
	repo repositories.BadgeRepository,
	registrar Registrar,
	eventBus events.EventBus,
	logger *zap.Logger,
	config *BadgeServiceConfig,
) BadgeService {
	if config == nil {
		config = DefaultBadgeServiceConfig()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if registrar == nil {
		registrar = NewSimulatedRegistrar(config.CreateDelay, config.AwardDelay)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &badgeService{
		repo:      repo,
		registrar: registrar,
		events:    eventBus,
		ids:       NewIDGenerator(config.Clock),
		logger:    logger,
		config:    config,
	}
}

// ===============================
// COMMANDS
// ===============================

// CreateBadge registers a new badge and prepends it to the registry.
func (s *badgeService) CreateBadge(ctx context.Context, form *models.BadgeCreationForm, creator string) (*models.Badge, error) {
	if form == nil {
		return nil, NewValidationError("badge form is required", nil)
	}
	input := *form
	input.Normalize()
	if err := validation.ValidateStruct(&input); err != nil {
		return nil, NewValidationError("invalid badge form", err)
	}
	creator = strings.TrimSpace(creator)
	if creator == "" {
		return nil, NewValidationError("creator address is required", nil)
	}

	s.begin()
	defer s.end()

	if err := s.registrar.Register(ctx, input, creator); err != nil {
		msg := s.fail(ctx, err, msgBadgeCreateFailed)
		s.logger.Warn("Badge registration failed",
			zap.String("name", input.Name),
			zap.String("creator", creator),
			zap.Error(err),
		)
		return nil, NewRegistrationError(msg, err)
	}

	badge := models.Badge{
		Name:        input.Name,
		Symbol:      input.Symbol,
		Description: input.Description,
		Criteria:    input.Criteria,
		Category:    input.Category,
		Rarity:      input.Rarity,
		Image:       input.Image,
		MaxSupply:   input.MaxSupply,
		Creator:     creator,
		CreatedAt:   s.config.Clock().UTC().Format(dateLayout),
		Recipients:  0,
	}

	if err := s.store(ctx, &badge); err != nil {
		msg := s.fail(ctx, err, msgBadgeCreateFailed)
		s.logger.Error("Failed to store badge", zap.Error(err))
		return nil, NewRegistrationError(msg, err)
	}

	s.logger.Info("Badge created",
		zap.String("badge_id", badge.ID),
		zap.String("name", badge.Name),
		zap.String("creator", badge.Creator),
	)

	s.publish(ctx, events.NewBadgeCreatedEvent(badge))
	s.publish(ctx, events.NewNotificationEvent(events.NotificationSuccess, msgBadgeCreated))

	return &badge, nil
}

// store prepends badge under a fresh id, drawing again if the id is taken
// by a seeded record.
func (s *badgeService) store(ctx context.Context, badge *models.Badge) error {
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		badge.ID = s.ids.Next()
		err = s.repo.Prepend(ctx, *badge)
		if !errors.Is(err, repositories.ErrDuplicateID) {
			return err
		}
	}
	return err
}

// AwardBadge adds one recipient to the badge with the given id.
func (s *badgeService) AwardBadge(ctx context.Context, badgeID, recipient string) error {
	badgeID = strings.TrimSpace(badgeID)
	recipient = strings.TrimSpace(recipient)
	if badgeID == "" {
		return NewValidationError("badge id is required", nil)
	}
	if recipient == "" {
		return NewValidationError("recipient address is required", nil)
	}

	s.begin()
	defer s.end()

	if err := s.registrar.Award(ctx, badgeID, recipient); err != nil {
		msg := s.fail(ctx, err, msgBadgeAwardFailed)
		s.logger.Warn("Badge award failed",
			zap.String("badge_id", badgeID),
			zap.String("recipient", recipient),
			zap.Error(err),
		)
		return NewAwardError(msg, err)
	}

	updated, found, err := s.repo.IncrementRecipients(ctx, badgeID)
	if err != nil {
		msg := s.fail(ctx, err, msgBadgeAwardFailed)
		return NewAwardError(msg, err)
	}

	if !found {
		if s.config.StrictAward {
			notFound := EntityNotFoundError("badge", badgeID)
			s.fail(ctx, notFound, msgBadgeAwardFailed)
			return notFound
		}
		s.logger.Warn("Award for unknown badge ignored",
			zap.String("badge_id", badgeID),
			zap.String("recipient", recipient),
		)
	} else {
		s.logger.Info("Badge awarded",
			zap.String("badge_id", badgeID),
			zap.String("recipient", recipient),
			zap.Int("recipients", updated.Recipients),
		)
	}

	s.publish(ctx, events.NewBadgeAwardedEvent(badgeID, recipient, updated.Recipients, found))
	s.publish(ctx, events.NewNotificationEvent(events.NotificationSuccess, msgBadgeAwarded))
	return nil
}

// ===============================
// QUERIES
// ===============================

// GetBadgesByCreator returns the creator's badges in registry order.
func (s *badgeService) GetBadgesByCreator(ctx context.Context, creator string) ([]models.Badge, error) {
	badges, err := s.repo.ListByCreator(ctx, strings.TrimSpace(creator))
	if err != nil {
		return nil, NewInternalError("failed to list badges by creator")
	}
	return badges, nil
}

// ListBadges returns the badges matching filter in registry order.
func (s *badgeService) ListBadges(ctx context.Context, filter BadgeFilter) ([]models.Badge, error) {
	badges, err := s.repo.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list badges")
	}
	if filter.IsEmpty() {
		return badges, nil
	}
	return FilterBadges(badges, filter), nil
}

// GetBadge returns a single badge.
func (s *badgeService) GetBadge(ctx context.Context, id string) (*models.Badge, error) {
	badge, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load badge")
	}
	if !found {
		return nil, EntityNotFoundError("badge", id)
	}
	return &badge, nil
}

// GetDashboard computes creator statistics for address.
func (s *badgeService) GetDashboard(ctx context.Context, address string) (*models.CreatorDashboard, error) {
	badges, err := s.repo.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list badges")
	}
	return BuildDashboard(badges, strings.TrimSpace(address), s.config.Clock()), nil
}

// State returns the registry snapshot observers see.
func (s *badgeService) State(ctx context.Context) (*models.RegistryState, error) {
	badges, err := s.repo.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list badges")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := &models.RegistryState{
		Badges:    badges,
		IsLoading: s.inFlight > 0,
	}
	if s.lastError != nil {
		msg := *s.lastError
		state.Error = &msg
	}
	return state, nil
}

// ===============================
// HELPER METHODS
// ===============================

// begin marks an operation in flight and clears the previous error.
func (s *badgeService) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	s.lastError = nil
}

func (s *badgeService) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
}

// fail records err as the registry error, publishes a failure notification
// and returns the message used for both.
func (s *badgeService) fail(ctx context.Context, err error, fallback string) string {
	msg := messageOf(err, fallback)

	s.mu.Lock()
	s.lastError = &msg
	s.mu.Unlock()

	s.publish(ctx, events.NewNotificationEvent(events.NotificationError, msg))
	return msg
}

func (s *badgeService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish badge event",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}
