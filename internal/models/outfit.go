package models

import "time"

// Outfit is a document in the outfits collection. Names are unique per
// owning user.
type Outfit struct {
	ID         string     `json:"id"         bson:"id"`
	UserID     string     `json:"user_id"    bson:"user_id"`
	Name       string     `json:"name"       bson:"name"`
	Category   string     `json:"category"   bson:"category"`
	Season     string     `json:"season"     bson:"season"`
	Color      string     `json:"color"      bson:"color"`
	Image      ImageRef   `json:"image"      bson:",inline"`
	UsageCount int        `json:"usage_count" bson:"usage_count"`
	LastUsed   *time.Time `json:"last_used,omitempty" bson:"last_used,omitempty"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}

// OutfitResponse is the wire shape for outfit reads: the image reference is
// flattened to a single serving URL plus the storage tag.
type OutfitResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Season      string      `json:"season"`
	Color       string      `json:"color"`
	ImageURL    string      `json:"image_url,omitempty"`
	StorageType StorageMode `json:"storage_type,omitempty"`
	UsageCount  int         `json:"usage_count"`
	LastUsed    *time.Time  `json:"last_used,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (o *Outfit) Response() OutfitResponse {
	return OutfitResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Name:        o.Name,
		Category:    o.Category,
		Season:      o.Season,
		Color:       o.Color,
		ImageURL:    o.Image.URL(),
		StorageType: o.Image.Mode,
		UsageCount:  o.UsageCount,
		LastUsed:    o.LastUsed,
		CreatedAt:   o.CreatedAt,
	}
}

// OutfitStats is the response for GET /api/outfits/stats.
type OutfitStats struct {
	MostUsed  []OutfitResponse `json:"most_used"`
	LeastUsed []OutfitResponse `json:"least_used"`
}
