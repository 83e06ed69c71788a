package models

import "time"

// Group is a document in the groups collection. The creator is always the
// first member.
type Group struct {
	ID          string    `json:"id"                    bson:"id"`
	Name        string    `json:"name"                  bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatorID   string    `json:"creator_id"            bson:"creator_id"`
	Members     []string  `json:"members"               bson:"members"`
	InviteCode  string    `json:"invite_code"           bson:"invite_code"`
	CreatedAt   time.Time `json:"created_at"            bson:"created_at"`
}

func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// SharedOutfitToGroup associates one outfit with one group; the pair is
// unique.
type SharedOutfitToGroup struct {
	ID             string    `json:"id"                bson:"id"`
	GroupID        string    `json:"group_id"          bson:"group_id"`
	OutfitID       string    `json:"outfit_id"         bson:"outfit_id"`
	SharedByUserID string    `json:"shared_by_user_id" bson:"shared_by_user_id"`
	SharedAt       time.Time `json:"shared_at"         bson:"shared_at"`
}

// OutfitRating is one user's rating of one outfit within one group. A
// repeat rating by the same user replaces the first (upsert).
type OutfitRating struct {
	ID       string    `json:"id"       bson:"id"`
	GroupID  string    `json:"group_id" bson:"group_id"`
	OutfitID string    `json:"outfit_id" bson:"outfit_id"`
	UserID   string    `json:"user_id"  bson:"user_id"`
	Rating   int       `json:"rating"   bson:"rating"`
	RatedAt  time.Time `json:"rated_at" bson:"rated_at"`
}

// GroupCreateRequest is the JSON body for POST /api/groups/create.
type GroupCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
}

// JoinGroupRequest is the JSON body for POST /api/groups/join.
type JoinGroupRequest struct {
	InviteCode string `json:"invite_code" validate:"required"`
}

// ShareToGroupRequest is the JSON body for POST /api/groups/{id}/share.
type ShareToGroupRequest struct {
	OutfitID string `json:"outfit_id" validate:"required"`
}

// RatingRequest is the JSON body for rating an outfit in a group.
type RatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// RatingResponse reports the freshly recomputed mean after an upsert.
type RatingResponse struct {
	Message       string  `json:"message"`
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

// GroupResponse is the list/create view of a group.
type GroupResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CreatorID    string    `json:"creator_id"`
	CreatorName  string    `json:"creator_name"`
	MembersCount int       `json:"members_count"`
	InviteCode   string    `json:"invite_code"`
	CreatedAt    time.Time `json:"created_at"`
	IsMember     bool      `json:"is_member"`
}

// GroupMember is the member projection inside a group detail view.
type GroupMember struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}

// GroupOutfit is a shared outfit inside a group detail view, with its
// ratings computed fresh on every read.
type GroupOutfit struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Category      string      `json:"category"`
	Season        string      `json:"season"`
	Color         string      `json:"color"`
	ImageURL      string      `json:"image_url,omitempty"`
	SharedBy      GroupMember `json:"shared_by"`
	SharedAt      time.Time   `json:"shared_at"`
	RatingsCount  int         `json:"ratings_count"`
	AverageRating float64     `json:"average_rating"`
	UserRating    *int        `json:"user_rating,omitempty"`
}

// GroupDetail is the full view of a group for its members.
type GroupDetail struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	CreatorID     string        `json:"creator_id"`
	CreatorName   string        `json:"creator_name"`
	Members       []GroupMember `json:"members"`
	SharedOutfits []GroupOutfit `json:"shared_outfits"`
	InviteCode    string        `json:"invite_code"`
	CreatedAt     time.Time     `json:"created_at"`
	IsMember      bool          `json:"is_member"`
}
