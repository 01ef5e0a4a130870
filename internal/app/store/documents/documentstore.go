// internal/app/store/documents/documentstore.go
package documents

import (
	"context"
	"errors"
	"time"

	"github.com/docdeck/docdeck/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("document not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

// Patch is a partial update for a document. Nil fields are left untouched.
type Patch struct {
	Title   *string
	Content *string
}

// Create inserts a new document.
func (s *Store) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	now := time.Now().UTC()
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// GetByID retrieves a document by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	var doc models.Document
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Document{}, ErrNotFound
		}
		return models.Document{}, err
	}
	return doc, nil
}

// ForWorkspace returns every document in the workspace, most recently
// updated first.
func (s *Store) ForWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Document, error) {
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Update merges the patch into the stored document. updated_at is stamped
// with the database server's clock ($currentDate), never with this
// process's time, so it stays the single authoritative ordering signal.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) error {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if len(set) == 0 {
		return nil
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set":         set,
		"$currentDate": bson.M{"updated_at": true},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates indexes for the documents collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("idx_document_workspace"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
