package services

import (
	"strings"

	"badgehub/internal/models"
)

// FilterAll disables a category or rarity filter.
const FilterAll = "All"

// BadgeFilter narrows the gallery. Empty fields and FilterAll match everything.
type BadgeFilter struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	Rarity   string `json:"rarity,omitempty"`
}

// IsEmpty reports whether the filter matches every badge.
func (f BadgeFilter) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" && isAll(f.Category) && isAll(f.Rarity)
}

// Matches reports whether b passes the filter. The search term is matched
// case-insensitively against name and description.
func (f BadgeFilter) Matches(b models.Badge) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(b.Name), term) &&
			!strings.Contains(strings.ToLower(b.Description), term) {
			return false
		}
	}
	if !isAll(f.Category) && string(b.Category) != f.Category {
		return false
	}
	if !isAll(f.Rarity) && string(b.Rarity) != f.Rarity {
		return false
	}
	return true
}

// FilterBadges returns the badges that pass filter, preserving order.
func FilterBadges(badges []models.Badge, filter BadgeFilter) []models.Badge {
	out := make([]models.Badge, 0, len(badges))
	for _, b := range badges {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, FilterAll)
}
