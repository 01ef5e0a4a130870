// internal/domain/models/api.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// API registration status values.
const (
	ApiStatusActive      = "active"
	ApiStatusDeprecated  = "deprecated"
	ApiStatusDevelopment = "development"
)

// ValidApiStatus reports whether s is one of the known status values.
func ValidApiStatus(s string) bool {
	switch s {
	case ApiStatusActive, ApiStatusDeprecated, ApiStatusDevelopment:
		return true
	}
	return false
}

// ApiRegistration is a catalog entry for an API owned by a workspace.
//
// ApiKey is generated server-side once at creation and never reissued;
// the registry view masks it by default.
type ApiRegistration struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	Version     string `bson:"version" json:"version"`
	Status      string `bson:"status" json:"status"`
	ApiKey      string `bson:"api_key" json:"api_key"`

	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
