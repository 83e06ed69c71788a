package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartwardrobe/backend/internal/models"
)

// OutfitStore handles outfit documents in the outfits collection.
type OutfitStore struct {
	col *mongo.Collection
}

func NewOutfitStore(db *mongo.Database) *OutfitStore {
	return &OutfitStore{col: db.Collection("outfits")}
}

func (s *OutfitStore) Create(ctx context.Context, o *models.Outfit) error {
	if _, err := s.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert outfit: %w", err)
	}
	return nil
}

func (s *OutfitStore) ListByUser(ctx context.Context, userID string) ([]models.Outfit, error) {
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var outfits []models.Outfit
	if err := cur.All(ctx, &outfits); err != nil {
		return nil, err
	}
	return outfits, nil
}

// GetByID looks an outfit up without owner scoping; used by share links.
func (s *OutfitStore) GetByID(ctx context.Context, id string) (*models.Outfit, error) {
	var o models.Outfit
	if err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&o); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

// GetOwned looks an outfit up scoped to its owner.
func (s *OutfitStore) GetOwned(ctx context.Context, id, userID string) (*models.Outfit, error) {
	var o models.Outfit
	err := s.col.FindOne(ctx, bson.M{"id": id, "user_id": userID}).Decode(&o)
	if err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

// NameTaken reports whether the user already owns an outfit with the name.
func (s *OutfitStore) NameTaken(ctx context.Context, userID, name string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"user_id": userID, "name": name})
	return n > 0, err
}

// Update replaces the outfit's metadata and image reference. Usage fields
// are left alone; RecordUse owns those.
func (s *OutfitStore) Update(ctx context.Context, o *models.Outfit) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"id": o.ID}, bson.M{"$set": bson.M{
		"name":         o.Name,
		"category":     o.Category,
		"season":       o.Season,
		"color":        o.Color,
		"storage_type": o.Image.Mode,
		"image_id":     o.Image.ObjectID,
		"local_path":   o.Image.LocalPath,
		"external_url": o.Image.External,
	}})
	return err
}

func (s *OutfitStore) Delete(ctx context.Context, id string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"id": id})
	return err
}

// RecordUse bumps the usage counter and stamps last_used in one atomic
// document update.
func (s *OutfitStore) RecordUse(ctx context.Context, id string, when time.Time) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$inc": bson.M{"usage_count": 1},
		"$set": bson.M{"last_used": when},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
