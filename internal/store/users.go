package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartwardrobe/backend/internal/models"
)

// UserStore handles user documents in the users collection.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	if _, err := s.col.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// UsernameInUse reports whether any user other than excludeID already holds
// the username. Pass excludeID "" to check against everyone.
func (s *UserStore) UsernameInUse(ctx context.Context, username, excludeID string) (bool, error) {
	filter := bson.M{"username": username}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	n, err := s.col.CountDocuments(ctx, filter)
	return n > 0, err
}

func (s *UserStore) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	filter := bson.M{"email": email}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	n, err := s.col.CountDocuments(ctx, filter)
	return n > 0, err
}

// UpdateProfile sets only the provided fields. A non-nil empty phone clears
// the stored phone number.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, username, email, phone *string) error {
	set := bson.M{}
	if username != nil {
		set["username"] = *username
	}
	if email != nil {
		set["email"] = *email
	}
	if phone != nil {
		set["phone"] = *phone
	}
	if len(set) == 0 {
		return nil
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	return err
}

func (s *UserStore) SetPassword(ctx context.Context, id, passwordHash string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"password_hash": passwordHash}})
	return err
}

func (s *UserStore) SetProfilePic(ctx context.Context, id, picID, picURL string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"id": id},
		bson.M{"$set": bson.M{"profile_pic_id": picID, "profile_pic_url": picURL}})
	return err
}
