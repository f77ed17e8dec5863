package repositories

import (
	"context"
	"errors"

	"badgehub/internal/models"
)

// ErrDuplicateID is returned when a badge id is already taken.
var ErrDuplicateID = errors.New("badge id already exists")

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// BadgeRepository defines the contract for badge data operations.
// Badges are kept newest first; index 0 is always the most recent insert.
type BadgeRepository interface {
	// Prepend inserts badge at the head of the list. It fails with
	// ErrDuplicateID when the id is already present.
	Prepend(ctx context.Context, badge models.Badge) error

	// List returns a copy of every badge in registry order.
	List(ctx context.Context) ([]models.Badge, error)
	GetByID(ctx context.Context, id string) (models.Badge, bool, error)
	ListByCreator(ctx context.Context, creator string) ([]models.Badge, error)

	// IncrementRecipients adds one recipient to the badge with the given id
	// and returns the updated badge. found is false when no badge matches.
	IncrementRecipients(ctx context.Context, id string) (badge models.Badge, found bool, err error)

	Count(ctx context.Context) (int, error)
}
