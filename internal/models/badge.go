package models

import "strings"

// BadgeCategory is the fixed set of categories a badge can be filed under.
type BadgeCategory string

const (
	CategoryAchievement   BadgeCategory = "Achievement"
	CategoryCertification BadgeCategory = "Certification"
	CategoryParticipation BadgeCategory = "Participation"
	CategorySkill         BadgeCategory = "Skill"
	CategoryCommunity     BadgeCategory = "Community"
	CategoryEvent         BadgeCategory = "Event"
	CategoryGame          BadgeCategory = "Game"
	CategoryEducation     BadgeCategory = "Education"
)

// BadgeCategories lists every category in display order.
var BadgeCategories = []BadgeCategory{
	CategoryAchievement,
	CategoryCertification,
	CategoryParticipation,
	CategorySkill,
	CategoryCommunity,
	CategoryEvent,
	CategoryGame,
	CategoryEducation,
}

// IsValid reports whether c is one of the known categories.
func (c BadgeCategory) IsValid() bool {
	for _, known := range BadgeCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Rarity is one of four ordered scarcity tiers.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Rarities lists the tiers from least to most prestigious.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Rank returns the position of r in the tier ordering, or -1 when unknown.
func (r Rarity) Rank() int {
	for i, known := range Rarities {
		if r == known {
			return i
		}
	}
	return -1
}

// IsValid reports whether r is one of the four tiers.
func (r Rarity) IsValid() bool {
	return r.Rank() >= 0
}

// Less orders tiers Common < Rare < Epic < Legendary.
func (r Rarity) Less(other Rarity) bool {
	return r.Rank() < other.Rank()
}

// Badge represents a registered achievement type. Recipients only ever grows,
// and only through an award.
type Badge struct {
	ID              string        `json:"id" toml:"id"`
	Name            string        `json:"name" toml:"name"`
	Symbol          string        `json:"symbol" toml:"symbol"`
	Description     string        `json:"description" toml:"description"`
	Criteria        string        `json:"criteria" toml:"criteria"`
	Category        BadgeCategory `json:"category" toml:"category"`
	Rarity          Rarity        `json:"rarity" toml:"rarity"`
	Image           string        `json:"image" toml:"image"`
	ContractAddress *string       `json:"contract_address,omitempty" toml:"contract_address"`
	MaxSupply       int           `json:"max_supply,omitempty" toml:"max_supply"`
	Creator         string        `json:"creator" toml:"creator"`
	CreatedAt       string        `json:"created_at" toml:"created_at"`
	Recipients      int           `json:"recipients" toml:"recipients"`
}

// CreatedBy reports whether the badge was created by address, ignoring case.
func (b Badge) CreatedBy(address string) bool {
	if address == "" {
		return false
	}
	return strings.EqualFold(b.Creator, address)
}

// BadgeCreationForm is the validated input for registering a new badge.
type BadgeCreationForm struct {
	Name        string        `json:"name" validate:"required,max=64"`
	Symbol      string        `json:"symbol" validate:"required,max=10"`
	Description string        `json:"description" validate:"required"`
	Criteria    string        `json:"criteria" validate:"required"`
	Category    BadgeCategory `json:"category" validate:"required,badge_category"`
	Rarity      Rarity        `json:"rarity" validate:"required,badge_rarity"`
	MaxSupply   int           `json:"max_supply" validate:"required,gte=1"`
	Image       string        `json:"image,omitempty" validate:"omitempty,url"`
}

// Normalize trims free-text fields and upper-cases the symbol.
func (f *BadgeCreationForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Symbol = strings.ToUpper(strings.TrimSpace(f.Symbol))
	f.Description = strings.TrimSpace(f.Description)
	f.Criteria = strings.TrimSpace(f.Criteria)
	f.Image = strings.TrimSpace(f.Image)
}

// AwardRequest names the recipient of an award.
type AwardRequest struct {
	Recipient string `json:"recipient" validate:"required"`
}

// RegistryState is the snapshot observers of the badge registry see.
type RegistryState struct {
	Badges    []Badge `json:"badges"`
	IsLoading bool    `json:"is_loading"`
	Error     *string `json:"error"`
}
