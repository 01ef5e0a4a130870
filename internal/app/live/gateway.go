// internal/app/live/gateway.go
//
// Package live holds the reactive core of DocDeck: the remote data gateway,
// the identity state machine, the debounced editing session, and the
// per-client orchestrator that drives the dashboard views. Everything here
// is callback-based: a subscription delivers a full snapshot immediately and
// again after every relevant change, and the returned cancel func tears the
// subscription down atomically.
package live

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/docdeck/docdeck/internal/app/store/apis"
	"github.com/docdeck/docdeck/internal/app/store/documents"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// CancelFunc tears down a live subscription. It is idempotent; calling it
// more than once is harmless. After it returns, the subscription's callback
// will not be invoked again.
type CancelFunc func()

// Gateway is the single seam between the reactive core and the document
// store. Subscriptions push full result sets, never deltas: the first
// delivery happens synchronously before Subscribe returns, so callers always
// start from a consistent snapshot.
type Gateway interface {
	// SubscribeWorkspaces streams the workspaces the given user is a member
	// of, sorted oldest first. Membership is enforced here; no caller can
	// widen the query.
	SubscribeWorkspaces(ctx context.Context, userID primitive.ObjectID, fn func([]models.Workspace)) (CancelFunc, error)

	// SubscribeDocuments streams the documents of one workspace, most
	// recently updated first.
	SubscribeDocuments(ctx context.Context, workspaceID primitive.ObjectID, fn func([]models.Document)) (CancelFunc, error)

	// SubscribeApis streams the API registrations of one workspace, newest
	// first.
	SubscribeApis(ctx context.Context, workspaceID primitive.ObjectID, fn func([]models.ApiRegistration)) (CancelFunc, error)

	// UpdateDocument applies a partial update. The updated_at stamp is
	// assigned by the database, not the caller.
	UpdateDocument(ctx context.Context, id primitive.ObjectID, patch documents.Patch) error

	// CreateDocument inserts a new document and returns it with its
	// generated identifier.
	CreateDocument(ctx context.Context, doc models.Document) (models.Document, error)

	// CreateApi registers a new API in a workspace. The key is generated
	// server-side; callers never supply one.
	CreateApi(ctx context.Context, workspaceID primitive.ObjectID, fields apis.Fields) (models.ApiRegistration, error)

	// Members resolves the member profiles of a workspace.
	Members(ctx context.Context, ws models.Workspace) ([]models.UserProfile, error)
}
