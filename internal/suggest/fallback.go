package suggest

import (
	"sort"

	"github.com/smartwardrobe/backend/internal/models"
)

// LeastWornOutfits returns up to limit outfits ordered by ascending usage,
// ties keeping retrieval order.
func LeastWornOutfits(outfits []models.Outfit, limit int) []models.Outfit {
	sorted := make([]models.Outfit, len(outfits))
	copy(sorted, outfits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UsageCount < sorted[j].UsageCount })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// LeastWornFallback builds generic suggestions from the least-worn outfits
// when the model cannot be asked.
func LeastWornFallback(leastUsed []models.Outfit) []models.Suggestion {
	if len(leastUsed) > 4 {
		leastUsed = leastUsed[:4]
	}
	suggestions := make([]models.Suggestion, 0, len(leastUsed))
	for i := range leastUsed {
		suggestions = append(suggestions, models.Suggestion{
			OutfitName:         leastUsed[i].Name,
			StylingTip:         "Try pairing it with different accessories or layering it.",
			Occasion:           "Daily wear",
			ComplementaryItems: []string{},
		})
	}
	return suggestions
}

// SeasonsForTemp buckets a temperature into the seasons worth wearing.
func SeasonsForTemp(temp float64) []string {
	switch {
	case temp < 10:
		return []string{"winter", "fall", "all"}
	case temp < 20:
		return []string{"fall", "spring", "all"}
	default:
		return []string{"summer", "spring", "all"}
	}
}

var recommendationLevels = []string{"mostly recommended", "recommended", "least recommended"}

// WeatherFallback picks up to three season-appropriate outfits and ranks
// them, used when the model cannot be asked.
func WeatherFallback(outfits []models.Outfit, w Weather) []models.Suggestion {
	seasons := SeasonsForTemp(w.Temperature)
	inSeason := func(season string) bool {
		if season == "" {
			season = "all"
		}
		for _, s := range seasons {
			if s == season {
				return true
			}
		}
		return false
	}

	suggestions := make([]models.Suggestion, 0, 3)
	for i := range outfits {
		if !inSeason(outfits[i].Season) {
			continue
		}
		level := recommendationLevels[len(recommendationLevels)-1]
		if len(suggestions) < len(recommendationLevels) {
			level = recommendationLevels[len(suggestions)]
		}
		suggestions = append(suggestions, models.Suggestion{
			OutfitName:          outfits[i].Name,
			StylingTip:          "A good choice for the current weather.",
			Occasion:            "Daily wear",
			RecommendationLevel: level,
			Reason:              "Perfect for " + formatTemp(w.Temperature) + "°C and " + w.Description,
			ComplementaryItems:  []string{},
		})
		if len(suggestions) == 3 {
			break
		}
	}
	return suggestions
}
