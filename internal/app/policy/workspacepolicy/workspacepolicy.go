// Package workspacepolicy provides authorization policies for workspaces.
//
// Authorization rules:
//   - Any member of a workspace can view it, its documents, and its APIs
//   - Any member can invite new members
//   - Only members can create documents and register APIs
//   - Non-members cannot see that a workspace exists
package workspacepolicy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/docdeck/docdeck/internal/domain/models"
)

// CanView reports whether the user may see the workspace and its contents.
func CanView(ws models.Workspace, userID primitive.ObjectID) bool {
	return ws.HasMember(userID)
}

// CanInvite reports whether the user may add members to the workspace.
func CanInvite(ws models.Workspace, userID primitive.ObjectID) bool {
	return ws.HasMember(userID)
}

// CanCreateContent reports whether the user may create documents or
// register APIs in the workspace.
func CanCreateContent(ws models.Workspace, userID primitive.ObjectID) bool {
	return ws.HasMember(userID)
}
