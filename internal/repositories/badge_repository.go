package repositories

import (
	"context"
	"fmt"
	"sync"

	"badgehub/internal/models"

	"go.uber.org/zap"
)

// memoryBadgeRepository holds badges in process memory. All reads return
// copies so callers never observe a partially applied mutation.
type memoryBadgeRepository struct {
	mu     sync.RWMutex
	badges []models.Badge
	ids    map[string]struct{}
	logger *zap.Logger
}

// NewMemoryBadgeRepository creates a repository pre-populated with seed,
// which is taken in registry order (newest first).
func NewMemoryBadgeRepository(seed []models.Badge, logger *zap.Logger) (BadgeRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &memoryBadgeRepository{
		badges: make([]models.Badge, 0, len(seed)),
		ids:    make(map[string]struct{}, len(seed)),
		logger: logger,
	}

	for _, b := range seed {
		if b.ID == "" {
			return nil, fmt.Errorf("seed badge %q has no id", b.Name)
		}
		if _, taken := r.ids[b.ID]; taken {
			return nil, fmt.Errorf("seed badge %q: %w", b.ID, ErrDuplicateID)
		}
		r.ids[b.ID] = struct{}{}
		r.badges = append(r.badges, cloneBadge(b))
	}

	return r, nil
}

func (r *memoryBadgeRepository) Prepend(ctx context.Context, badge models.Badge) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.ids[badge.ID]; taken {
		return fmt.Errorf("badge %q: %w", badge.ID, ErrDuplicateID)
	}

	next := make([]models.Badge, 0, len(r.badges)+1)
	next = append(next, cloneBadge(badge))
	next = append(next, r.badges...)
	r.badges = next
	r.ids[badge.ID] = struct{}{}

	r.logger.Debug("Badge stored",
		zap.String("badge_id", badge.ID),
		zap.Int("total", len(r.badges)),
	)
	return nil
}

func (r *memoryBadgeRepository) List(ctx context.Context) ([]models.Badge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Badge, len(r.badges))
	for i, b := range r.badges {
		out[i] = cloneBadge(b)
	}
	return out, nil
}

func (r *memoryBadgeRepository) GetByID(ctx context.Context, id string) (models.Badge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.badges {
		if b.ID == id {
			return cloneBadge(b), true, nil
		}
	}
	return models.Badge{}, false, nil
}

func (r *memoryBadgeRepository) ListByCreator(ctx context.Context, creator string) ([]models.Badge, error) {
	out := []models.Badge{}
	if creator == "" {
		return out, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.badges {
		if b.CreatedBy(creator) {
			out = append(out, cloneBadge(b))
		}
	}
	return out, nil
}

func (r *memoryBadgeRepository) IncrementRecipients(ctx context.Context, id string) (models.Badge, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Badge{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.badges {
		if r.badges[i].ID == id {
			r.badges[i].Recipients++
			return cloneBadge(r.badges[i]), true, nil
		}
	}
	return models.Badge{}, false, nil
}

func (r *memoryBadgeRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.badges), nil
}

func cloneBadge(b models.Badge) models.Badge {
	if b.ContractAddress != nil {
		addr := *b.ContractAddress
		b.ContractAddress = &addr
	}
	return b
}
