package models

// CreatorDashboard summarises the badges a single address has created.
type CreatorDashboard struct {
	Address         string  `json:"address"`
	BadgesCreated   int     `json:"badges_created"`
	TotalRecipients int     `json:"total_recipients"`
	MostPopular     int     `json:"most_popular"`
	ThisMonth       int     `json:"this_month"`
	RecentBadges    []Badge `json:"recent_badges"`
}
