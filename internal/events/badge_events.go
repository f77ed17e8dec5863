package events

import "badgehub/internal/models"

// Badge event types
const (
	BadgeCreatedEventType = "badge.created"
	BadgeAwardedEventType = "badge.awarded"
)

// BadgeCreatedEvent is emitted after a badge has been registered and
// prepended to the registry.
type BadgeCreatedEvent struct {
	BaseEvent
	Badge models.Badge `json:"badge"`
}

// NewBadgeCreatedEvent creates a new BadgeCreatedEvent
func NewBadgeCreatedEvent(badge models.Badge) *BadgeCreatedEvent {
	return &BadgeCreatedEvent{
		BaseEvent: newBaseEvent(BadgeCreatedEventType),
		Badge:     badge,
	}
}

// BadgeAwardedEvent is emitted after an award round-trip completes.
//
// Found is false when the id matched no badge; Recipients is then zero.
type BadgeAwardedEvent struct {
	BaseEvent
	BadgeID    string `json:"badge_id"`
	Recipient  string `json:"recipient"`
	Recipients int    `json:"recipients"`
	Found      bool   `json:"found"`
}

// NewBadgeAwardedEvent creates a new BadgeAwardedEvent
func NewBadgeAwardedEvent(badgeID, recipient string, recipients int, found bool) *BadgeAwardedEvent {
	return &BadgeAwardedEvent{
		BaseEvent:  newBaseEvent(BadgeAwardedEventType),
		BadgeID:    badgeID,
		Recipient:  recipient,
		Recipients: recipients,
		Found:      found,
	}
}
