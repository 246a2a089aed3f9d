package quotebot

import (
	"testing"

	"github.com/aerovista/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestService(t *testing.T) {
	cases := []struct {
		desc string
		want models.ServiceType
	}{
		{"Topographic survey with volume calculations for a stockpile", models.ServiceSurveying},
		{"Orthomosaic map of a 40 acre parcel", models.ServiceMapping},
		{"Roof inspection of a solar array with thermal camera", models.ServiceInspection},
		{"Promo video with cinematic footage", models.ServiceVideography},
		{"Aerial photos of a property listing for real estate", models.ServiceAerialPhotography},
		{"Something else entirely", models.ServiceOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SuggestService(tc.desc), tc.desc)
	}
}

func TestBuildEstimateScalesWithDuration(t *testing.T) {
	one := BuildEstimate(&EstimateDTO{Description: "aerial photos", DurationHrs: 1})
	three := BuildEstimate(&EstimateDTO{Description: "aerial photos", DurationHrs: 3})

	assert.Equal(t, models.ServiceAerialPhotography, one.ServiceType)
	assert.Equal(t, "USD", one.Currency)
	assert.Greater(t, three.PriceMin, one.PriceMin)
	assert.Greater(t, three.PriceMax, one.PriceMax)
	assert.GreaterOrEqual(t, one.PriceMax, one.PriceMin)
}

func TestBuildEstimateMappingUsesArea(t *testing.T) {
	small := BuildEstimate(&EstimateDTO{Description: "orthomosaic map of a farmland parcel", AreaAcres: 10})
	large := BuildEstimate(&EstimateDTO{Description: "orthomosaic map of a farmland parcel", AreaAcres: 100})

	assert.Equal(t, models.ServiceMapping, small.ServiceType)
	assert.Greater(t, large.PriceMin, small.PriceMin)
}

func TestBuildEstimateRushModifier(t *testing.T) {
	plain := BuildEstimate(&EstimateDTO{Description: "aerial photos of the beach"})
	rush := BuildEstimate(&EstimateDTO{Description: "urgent aerial photos of the beach"})

	assert.Greater(t, rush.PriceMin, plain.PriceMin)
	assert.Contains(t, rush.Factors, "rush scheduling")
}

func TestBuildEstimateRoundsToStep(t *testing.T) {
	est := BuildEstimate(&EstimateDTO{Description: "aerial photos", DurationHrs: 1.7})
	assert.Zero(t, est.PriceMin%25)
	assert.Zero(t, est.PriceMax%25)
}

func TestExtractKeywords(t *testing.T) {
	text := "Drone mapping and drone inspection. Drone surveys deliver mapping accuracy for mapping projects."
	kws := ExtractKeywords(text, 3)

	require.NotEmpty(t, kws)
	assert.Equal(t, "mapping", kws[0])
	assert.Contains(t, kws, "drone")
	assert.NotContains(t, kws, "and")
	assert.NotContains(t, kws, "for")
}

func TestBuildSEO(t *testing.T) {
	s := BuildSEO(&SEODTO{
		Text:  "Aerial drone photography for real estate listings. Our drone pilots capture stunning aerial imagery of properties across the region.",
		Topic: "Real Estate Photography",
	})

	assert.LessOrEqual(t, len(s.Title), 60)
	assert.LessOrEqual(t, len(s.Description), 155)
	assert.Contains(t, s.Title, "Real Estate Photography")
	assert.Equal(t, "Aerial drone photography for real estate listings.", s.Description)
	assert.NotEmpty(t, s.Keywords)
}

func TestBuildSEOFallbacks(t *testing.T) {
	s := BuildSEO(&SEODTO{Text: "drone drone drone mapping mapping flight"})
	assert.NotEmpty(t, s.Title)
	assert.NotEmpty(t, s.Description)
}
