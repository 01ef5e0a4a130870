// internal/app/store/users/userstore.go
package users

import (
	"context"
	"errors"
	"time"

	"github.com/docdeck/docdeck/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("user not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID retrieves a profile by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.UserProfile, error) {
	var u models.UserProfile
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.UserProfile{}, ErrNotFound
		}
		return models.UserProfile{}, err
	}
	return u, nil
}

// GetByAuthID retrieves a profile by the identity provider's subject id.
func (s *Store) GetByAuthID(ctx context.Context, authID string) (models.UserProfile, error) {
	var u models.UserProfile
	err := s.c.FindOne(ctx, bson.M{"auth_id": authID}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.UserProfile{}, ErrNotFound
		}
		return models.UserProfile{}, err
	}
	return u, nil
}

// GetByEmail retrieves a profile by email address.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.UserProfile, error) {
	var u models.UserProfile
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.UserProfile{}, ErrNotFound
		}
		return models.UserProfile{}, err
	}
	return u, nil
}

// Create inserts a new profile.
func (s *Store) Create(ctx context.Context, u models.UserProfile) (models.UserProfile, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a race with a concurrent first login; the existing
			// profile wins.
			return s.GetByAuthID(ctx, u.AuthID)
		}
		return models.UserProfile{}, err
	}
	return u, nil
}

// GetMany retrieves profiles for the given ids (workspace member lists).
// Missing ids are silently skipped.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.UserProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.UserProfile
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetThemePreference records the user's theme choice.
func (s *Store) SetThemePreference(ctx context.Context, id primitive.ObjectID, theme string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"theme_preference": theme,
		"updated_at":       time.Now().UTC(),
	}})
	return err
}

// EnsureIndexes creates indexes for the users collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// One profile per provider identity; also backs the
		// read-then-create on first login.
		{
			Keys:    bson.D{{Key: "auth_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_auth_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_user_email"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
