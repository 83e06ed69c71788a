package models

import "time"

// ShareTTL is how long a share link stays valid after creation.
const ShareTTL = 30 * 24 * time.Hour

// SharedOutfit is a document in the shared_outfits collection. Tokens are
// minted independently of the outfit id so they can be rotated without
// touching the outfit. Many shares may exist per outfit; expiry is checked
// lazily on read, never swept.
type SharedOutfit struct {
	ID         string    `json:"id"          bson:"id"`
	OutfitID   string    `json:"outfit_id"   bson:"outfit_id"`
	ShareToken string    `json:"share_token" bson:"share_token"`
	CreatedAt  time.Time `json:"created_at"  bson:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"  bson:"expires_at"`
}

func (s *SharedOutfit) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ShareResponse is returned when a share link is created.
type ShareResponse struct {
	ShareURL  string    `json:"share_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PublicOutfitView is the reduced read-only projection served to anonymous
// visitors of a share link: no owner identity, no usage history.
type PublicOutfitView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Season    string    `json:"season"`
	Color     string    `json:"color"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
