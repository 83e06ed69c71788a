package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartwardrobe/backend/internal/models"
)

// GroupShareStore handles the shared_outfits_to_group association
// collection; the (group, outfit) pair is unique.
type GroupShareStore struct {
	col *mongo.Collection
}

func NewGroupShareStore(db *mongo.Database) *GroupShareStore {
	return &GroupShareStore{col: db.Collection("shared_outfits_to_group")}
}

func (s *GroupShareStore) Create(ctx context.Context, share *models.SharedOutfitToGroup) error {
	if _, err := s.col.InsertOne(ctx, share); err != nil {
		return fmt.Errorf("insert group share: %w", err)
	}
	return nil
}

func (s *GroupShareStore) Get(ctx context.Context, groupID, outfitID string) (*models.SharedOutfitToGroup, error) {
	var share models.SharedOutfitToGroup
	err := s.col.FindOne(ctx, bson.M{"group_id": groupID, "outfit_id": outfitID}).Decode(&share)
	if err != nil {
		return nil, mapErr(err)
	}
	return &share, nil
}

func (s *GroupShareStore) ListByGroup(ctx context.Context, groupID string) ([]models.SharedOutfitToGroup, error) {
	cur, err := s.col.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var shares []models.SharedOutfitToGroup
	if err := cur.All(ctx, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// RatingStore handles the outfit_ratings collection: one rating per
// (group, outfit, user).
type RatingStore struct {
	col *mongo.Collection
}

func NewRatingStore(db *mongo.Database) *RatingStore {
	return &RatingStore{col: db.Collection("outfit_ratings")}
}

// Upsert writes the user's rating for the outfit in the group, replacing an
// earlier one if present. A single upsert keeps the per-user-per-outfit
// uniqueness under concurrent calls.
func (s *RatingStore) Upsert(ctx context.Context, groupID, outfitID, userID string, rating int, when time.Time) (created bool, err error) {
	filter := bson.M{"group_id": groupID, "outfit_id": outfitID, "user_id": userID}
	update := bson.M{
		"$set":         bson.M{"rating": rating, "rated_at": when},
		"$setOnInsert": bson.M{"id": uuid.NewString()},
	}
	res, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (s *RatingStore) ListFor(ctx context.Context, groupID, outfitID string) ([]models.OutfitRating, error) {
	cur, err := s.col.Find(ctx, bson.M{"group_id": groupID, "outfit_id": outfitID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ratings []models.OutfitRating
	if err := cur.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}
