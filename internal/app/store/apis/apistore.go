// internal/app/store/apis/apistore.go
package apis

import (
	"context"
	"errors"
	"time"

	"github.com/docdeck/docdeck/internal/app/system/apikeys"
	"github.com/docdeck/docdeck/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound      = errors.New("api registration not found")
	ErrInvalidStatus = errors.New("invalid api status")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("apis")}
}

// Fields are the caller-supplied attributes of a new registration. The key
// and timestamps are generated here, never accepted from the caller.
type Fields struct {
	Name        string
	Description string
	Version     string
	Status      string
}

// Create inserts a new registration with a freshly generated API key.
func (s *Store) Create(ctx context.Context, workspaceID primitive.ObjectID, f Fields) (models.ApiRegistration, error) {
	if f.Status == "" {
		f.Status = models.ApiStatusDevelopment
	}
	if !models.ValidApiStatus(f.Status) {
		return models.ApiRegistration{}, ErrInvalidStatus
	}

	key, err := apikeys.Generate()
	if err != nil {
		return models.ApiRegistration{}, err
	}

	api := models.ApiRegistration{
		ID:          primitive.NewObjectID(),
		Name:        f.Name,
		Description: f.Description,
		Version:     f.Version,
		Status:      f.Status,
		ApiKey:      key,
		WorkspaceID: workspaceID,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, api); err != nil {
		return models.ApiRegistration{}, err
	}
	return api, nil
}

// GetByID retrieves a registration by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ApiRegistration, error) {
	var api models.ApiRegistration
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&api)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ApiRegistration{}, ErrNotFound
		}
		return models.ApiRegistration{}, err
	}
	return api, nil
}

// ForWorkspace returns every registration in the workspace, newest first.
func (s *Store) ForWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.ApiRegistration, error) {
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var apis []models.ApiRegistration
	if err := cur.All(ctx, &apis); err != nil {
		return nil, err
	}
	return apis, nil
}

// EnsureIndexes creates indexes for the apis collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_api_workspace"),
		},
		{
			Keys:    bson.D{{Key: "api_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_api_key"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
