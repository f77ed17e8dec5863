package repositories

import (
	"fmt"

	"badgehub/internal/models"

	"github.com/BurntSushi/toml"
)

// DefaultSeedBadges returns the demonstration catalog the registry starts
// with when no seed file is configured.
func DefaultSeedBadges() []models.Badge {
	return []models.Badge{
		{
			ID:          "1",
			Name:        "Web3 Pioneer",
			Description: "Awarded to early adopters of Web3 technology",
			Image:       "https://images.pexels.com/photos/6804595/pexels-photo-6804595.jpeg?auto=compress&cs=tinysrgb&w=400",
			Symbol:      "W3P",
			Creator:     "0x1234...5678",
			CreatedAt:   "2024-01-15",
			Recipients:  125,
			Criteria:    "Must have created at least 5 transactions on Lukso mainnet",
			Category:    models.CategoryAchievement,
			Rarity:      models.RarityRare,
		},
		{
			ID:          "2",
			Name:        "Community Builder",
			Description: "Recognized for outstanding community contributions",
			Image:       "https://images.pexels.com/photos/3184306/pexels-photo-3184306.jpeg?auto=compress&cs=tinysrgb&w=400",
			Symbol:      "CB",
			Creator:     "0x9876...5432",
			CreatedAt:   "2024-01-10",
			Recipients:  45,
			Criteria:    "Active participation in community governance",
			Category:    models.CategoryCommunity,
			Rarity:      models.RarityEpic,
		},
		{
			ID:          "3",
			Name:        "NFT Creator",
			Description: "First NFT creation milestone",
			Image:       "https://images.pexels.com/photos/8369648/pexels-photo-8369648.jpeg?auto=compress&cs=tinysrgb&w=400",
			Symbol:      "NFTC",
			Creator:     "0x5555...7777",
			CreatedAt:   "2024-01-20",
			Recipients:  89,
			Criteria:    "Successfully created and deployed first NFT collection",
			Category:    models.CategorySkill,
			Rarity:      models.RarityCommon,
		},
	}
}

// seedFile is the on-disk layout of a badge catalog:
//
//	[[badge]]
//	id = "1"
//	name = "Web3 Pioneer"
//	...
type seedFile struct {
	Badges []models.Badge `toml:"badge"`
}

// LoadSeedFile reads a TOML badge catalog. Entries are kept in file order.
func LoadSeedFile(path string) ([]models.Badge, error) {
	var f seedFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return validateSeed(f.Badges)
}

// DecodeSeed parses a TOML badge catalog from memory.
func DecodeSeed(data string) ([]models.Badge, error) {
	var f seedFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return validateSeed(f.Badges)
}

func validateSeed(badges []models.Badge) ([]models.Badge, error) {
	for i, b := range badges {
		if b.ID == "" {
			return nil, fmt.Errorf("seed entry %d: missing id", i)
		}
		if !b.Category.IsValid() {
			return nil, fmt.Errorf("seed entry %q: unknown category %q", b.ID, b.Category)
		}
		if !b.Rarity.IsValid() {
			return nil, fmt.Errorf("seed entry %q: unknown rarity %q", b.ID, b.Rarity)
		}
		if b.Recipients < 0 {
			return nil, fmt.Errorf("seed entry %q: negative recipients", b.ID)
		}
	}
	return badges, nil
}
