package validation

import (
	"errors"
	"testing"

	"badgehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() models.BadgeCreationForm {
	return models.BadgeCreationForm{
		Name:        "Web3 Pioneer",
		Symbol:      "W3P",
		Description: "Early adopter",
		Criteria:    "Five transactions",
		Category:    models.CategoryAchievement,
		Rarity:      models.RarityRare,
		MaxSupply:   100,
	}
}

func TestValidateStruct(t *testing.T) {
	form := validForm()
	require.NoError(t, ValidateStruct(&form))

	tests := []struct {
		name   string
		mutate func(f *models.BadgeCreationForm)
		field  string
		tag    string
	}{
		{"missing name", func(f *models.BadgeCreationForm) { f.Name = "" }, "name", "required"},
		{"unknown category", func(f *models.BadgeCreationForm) { f.Category = "Sports" }, "category", "badge_category"},
		{"unknown rarity", func(f *models.BadgeCreationForm) { f.Rarity = "Mythic" }, "rarity", "badge_rarity"},
		{"zero supply", func(f *models.BadgeCreationForm) { f.MaxSupply = 0 }, "max_supply", "required"},
		{"bad image url", func(f *models.BadgeCreationForm) { f.Image = "not a url" }, "image", "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := ValidateStruct(&form)
			var fields Errors
			require.True(t, errors.As(err, &fields), "got %v", err)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].Field)
			assert.Equal(t, tt.tag, fields[0].Tag)
		})
	}
}

func TestValidateStructRejectsNonStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(nil))
	assert.Error(t, ValidateStruct("badge"))
}
