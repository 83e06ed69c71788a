package suggest

import (
	"encoding/json"
	"errors"

	"github.com/smartwardrobe/backend/internal/models"
)

// listKeys are the envelope keys models have been observed wrapping their
// suggestion array under.
var listKeys = []string{"suggestions", "data", "results"}

// ParseSuggestions extracts a suggestion list from a model reply: an object
// wrapping the list under a known key, or a bare JSON array. An empty or
// unrecognizable reply is an error so callers fall back.
func ParseSuggestions(raw string) ([]models.Suggestion, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil {
		for _, key := range listKeys {
			v, ok := envelope[key]
			if !ok {
				continue
			}
			var list []models.Suggestion
			if err := json.Unmarshal(v, &list); err == nil && len(list) > 0 {
				return sanitize(list), nil
			}
		}
		return nil, errors.New("suggest: reply object held no suggestion list")
	}

	var list []models.Suggestion
	if err := json.Unmarshal([]byte(raw), &list); err == nil && len(list) > 0 {
		return sanitize(list), nil
	}
	return nil, errors.New("suggest: reply was not a suggestion list")
}

func sanitize(list []models.Suggestion) []models.Suggestion {
	for i := range list {
		if list[i].ComplementaryItems == nil {
			list[i].ComplementaryItems = []string{}
		}
	}
	return list
}
