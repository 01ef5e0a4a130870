// internal/app/live/mongogateway.go
package live

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/store/apis"
	"github.com/docdeck/docdeck/internal/app/store/documents"
	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/app/store/workspaces"
	"github.com/docdeck/docdeck/internal/app/system/timeouts"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// MongoGateway backs the Gateway contract with the store layer plus the
// change hub. Writes go through the stores and then kick the hub; each
// subscription re-queries on a kick and pushes the fresh snapshot. When the
// deployment supports change streams the Watcher feeds the same hub, so
// writes from other processes propagate too.
type MongoGateway struct {
	hub        *Hub
	users      *users.Store
	workspaces *workspaces.Store
	documents  *documents.Store
	apis       *apis.Store
	log        *zap.Logger
}

func NewMongoGateway(db *mongo.Database, hub *Hub, logger *zap.Logger) *MongoGateway {
	return &MongoGateway{
		hub:        hub,
		users:      users.New(db),
		workspaces: workspaces.New(db),
		documents:  documents.New(db),
		apis:       apis.New(db),
		log:        logger,
	}
}

func (g *MongoGateway) SubscribeWorkspaces(ctx context.Context, userID primitive.ObjectID, fn func([]models.Workspace)) (CancelFunc, error) {
	list, err := g.workspaces.ForMember(ctx, userID)
	if err != nil {
		return nil, &RemoteReadError{Op: "subscribe workspaces", Err: err}
	}
	fn(list)

	return g.hub.Listen(TopicWorkspaces, func() {
		rctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()
		list, err := g.workspaces.ForMember(rctx, userID)
		if err != nil {
			// Last delivered snapshot stands; the next kick retries.
			g.log.Warn("workspace re-query failed", zap.Error(err))
			return
		}
		fn(list)
	}), nil
}

func (g *MongoGateway) SubscribeDocuments(ctx context.Context, workspaceID primitive.ObjectID, fn func([]models.Document)) (CancelFunc, error) {
	list, err := g.documents.ForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, &RemoteReadError{Op: "subscribe documents", Err: err}
	}
	fn(list)

	return g.hub.Listen(TopicDocuments, func() {
		rctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()
		list, err := g.documents.ForWorkspace(rctx, workspaceID)
		if err != nil {
			g.log.Warn("document re-query failed", zap.Error(err))
			return
		}
		fn(list)
	}), nil
}

func (g *MongoGateway) SubscribeApis(ctx context.Context, workspaceID primitive.ObjectID, fn func([]models.ApiRegistration)) (CancelFunc, error) {
	list, err := g.apis.ForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, &RemoteReadError{Op: "subscribe apis", Err: err}
	}
	fn(list)

	return g.hub.Listen(TopicApis, func() {
		rctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()
		list, err := g.apis.ForWorkspace(rctx, workspaceID)
		if err != nil {
			g.log.Warn("api re-query failed", zap.Error(err))
			return
		}
		fn(list)
	}), nil
}

func (g *MongoGateway) UpdateDocument(ctx context.Context, id primitive.ObjectID, patch documents.Patch) error {
	if err := g.documents.Update(ctx, id, patch); err != nil {
		return &RemoteWriteError{Op: "update document", Err: err}
	}
	g.hub.Notify(TopicDocuments)
	return nil
}

func (g *MongoGateway) CreateDocument(ctx context.Context, doc models.Document) (models.Document, error) {
	created, err := g.documents.Create(ctx, doc)
	if err != nil {
		return models.Document{}, &RemoteWriteError{Op: "create document", Err: err}
	}
	g.hub.Notify(TopicDocuments)
	return created, nil
}

func (g *MongoGateway) CreateApi(ctx context.Context, workspaceID primitive.ObjectID, fields apis.Fields) (models.ApiRegistration, error) {
	created, err := g.apis.Create(ctx, workspaceID, fields)
	if err != nil {
		return models.ApiRegistration{}, &RemoteWriteError{Op: "create api", Err: err}
	}
	g.hub.Notify(TopicApis)
	return created, nil
}

func (g *MongoGateway) Members(ctx context.Context, ws models.Workspace) ([]models.UserProfile, error) {
	profiles, err := g.users.GetMany(ctx, ws.Members)
	if err != nil {
		return nil, &RemoteReadError{Op: "workspace members", Err: err}
	}
	return profiles, nil
}

// NotifyWorkspaces kicks the workspace topic. Membership changes go through
// the workspace store directly, not the gateway, so callers signal them here.
func (g *MongoGateway) NotifyWorkspaces() {
	g.hub.Notify(TopicWorkspaces)
}
