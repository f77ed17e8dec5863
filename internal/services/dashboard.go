package services

import (
	"time"

	"badgehub/internal/models"

	"golang.org/x/exp/slices"
)

const (
	dateLayout         = "2006-01-02"
	recentBadgesOnDash = 3
)

// BuildDashboard computes creator statistics for address over badges as of
// now. An empty address yields an all-zero dashboard.
func BuildDashboard(badges []models.Badge, address string, now time.Time) *models.CreatorDashboard {
	dash := &models.CreatorDashboard{
		Address:      address,
		RecentBadges: []models.Badge{},
	}
	if address == "" {
		return dash
	}

	var mine []models.Badge
	for _, b := range badges {
		if !b.CreatedBy(address) {
			continue
		}
		mine = append(mine, b)

		dash.TotalRecipients += b.Recipients
		if b.Recipients > dash.MostPopular {
			dash.MostPopular = b.Recipients
		}
		if created, err := time.Parse(dateLayout, b.CreatedAt); err == nil &&
			created.Year() == now.Year() && created.Month() == now.Month() {
			dash.ThisMonth++
		}
	}
	dash.BadgesCreated = len(mine)

	// Unparseable dates sort last.
	slices.SortStableFunc(mine, func(a, b models.Badge) int {
		ta, errA := time.Parse(dateLayout, a.CreatedAt)
		tb, errB := time.Parse(dateLayout, b.CreatedAt)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return tb.Compare(ta)
	})

	if len(mine) > recentBadgesOnDash {
		mine = mine[:recentBadgesOnDash]
	}
	dash.RecentBadges = append(dash.RecentBadges, mine...)
	return dash
}
