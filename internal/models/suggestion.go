package models

// Suggestion is the canonical shape every provider reply is normalized
// into, whatever key the model wrapped its list under.
type Suggestion struct {
	OutfitName          string   `json:"outfit_name"`
	StylingTip          string   `json:"styling_tip"`
	Occasion            string   `json:"occasion"`
	RecommendationLevel string   `json:"recommendation_level,omitempty"`
	Reason              string   `json:"reason,omitempty"`
	ComplementaryItems  []string `json:"complementary_items"`
}

// SuggestionResponse is what both suggestion endpoints return. Reasoning is
// always non-empty, even when every upstream call failed.
type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Reasoning   string       `json:"reasoning"`
}
