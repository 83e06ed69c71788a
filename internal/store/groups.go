package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartwardrobe/backend/internal/models"
)

// GroupStore handles group documents in the groups collection.
type GroupStore struct {
	col *mongo.Collection
}

func NewGroupStore(db *mongo.Database) *GroupStore {
	return &GroupStore{col: db.Collection("groups")}
}

func (s *GroupStore) Create(ctx context.Context, g *models.Group) error {
	if _, err := s.col.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (s *GroupStore) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var g models.Group
	if err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&g); err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func (s *GroupStore) GetByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	var g models.Group
	if err := s.col.FindOne(ctx, bson.M{"invite_code": code}).Decode(&g); err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func (s *GroupStore) ListByMember(ctx context.Context, userID string) ([]models.Group, error) {
	cur, err := s.col.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember appends the user to the member set with a single atomic
// $addToSet, so a concurrent duplicate join cannot insert twice.
func (s *GroupStore) AddMember(ctx context.Context, groupID, userID string) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"id": groupID},
		bson.M{"$addToSet": bson.M{"members": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InviteCodeInUse backs the collision re-check when generating codes.
func (s *GroupStore) InviteCodeInUse(ctx context.Context, code string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"invite_code": code})
	return n > 0, err
}
