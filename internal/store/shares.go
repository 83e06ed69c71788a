package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartwardrobe/backend/internal/models"
)

// ShareStore handles share tokens in the shared_outfits collection.
// Expired documents are never swept; expiry is enforced at read time.
type ShareStore struct {
	col *mongo.Collection
}

func NewShareStore(db *mongo.Database) *ShareStore {
	return &ShareStore{col: db.Collection("shared_outfits")}
}

func (s *ShareStore) Create(ctx context.Context, share *models.SharedOutfit) error {
	if _, err := s.col.InsertOne(ctx, share); err != nil {
		return fmt.Errorf("insert share: %w", err)
	}
	return nil
}

func (s *ShareStore) GetByToken(ctx context.Context, token string) (*models.SharedOutfit, error) {
	var share models.SharedOutfit
	err := s.col.FindOne(ctx, bson.M{"share_token": token}).Decode(&share)
	if err != nil {
		return nil, mapErr(err)
	}
	return &share, nil
}

// TokenInUse backs the collision re-check when minting new tokens.
func (s *ShareStore) TokenInUse(ctx context.Context, token string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"share_token": token})
	return n > 0, err
}
