package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/docdeck/docdeck/internal/app/system/apikeys"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user profile.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.UserProfile {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.UserProfile{
		ID:              primitive.NewObjectID(),
		AuthID:          "test|" + primitive.NewObjectID().Hex(),
		Name:            name,
		Email:           email,
		AvatarURL:       "https://i.pravatar.cc/150?u=" + email,
		ThemePreference: "system",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateWorkspace creates a test workspace owned by ownerID, with the owner
// and any extra users as members.
func (f *Fixtures) CreateWorkspace(ctx context.Context, name string, ownerID primitive.ObjectID, members ...primitive.ObjectID) models.Workspace {
	f.t.Helper()

	ws := models.Workspace{
		ID:        primitive.NewObjectID(),
		Name:      name,
		OwnerID:   ownerID,
		Members:   append([]primitive.ObjectID{ownerID}, members...),
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("workspaces").InsertOne(ctx, ws); err != nil {
		f.t.Fatalf("failed to create test workspace: %v", err)
	}
	return ws
}

// CreateDocument creates a test document in the given workspace.
func (f *Fixtures) CreateDocument(ctx context.Context, wsID, authorID primitive.ObjectID, title, content string) models.Document {
	f.t.Helper()

	now := time.Now().UTC()
	doc := models.Document{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Content:     content,
		WorkspaceID: wsID,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("documents").InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to create test document: %v", err)
	}
	return doc
}

// CreateApi creates a test API registration in the given workspace.
func (f *Fixtures) CreateApi(ctx context.Context, wsID primitive.ObjectID, name, status string) models.ApiRegistration {
	f.t.Helper()

	key, err := apikeys.Generate()
	if err != nil {
		f.t.Fatalf("failed to generate test api key: %v", err)
	}
	reg := models.ApiRegistration{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: "Test API description",
		Version:     "1.0.0",
		Status:      status,
		ApiKey:      key,
		WorkspaceID: wsID,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := f.db.Collection("apis").InsertOne(ctx, reg); err != nil {
		f.t.Fatalf("failed to create test api registration: %v", err)
	}
	return reg
}
