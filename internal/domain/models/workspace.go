// internal/domain/models/workspace.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace is the collaboration boundary in DocDeck. Documents and API
// registrations belong to exactly one workspace, and a user can see a
// workspace only when their profile id appears in Members.
//
// Workspaces are provisioned out of band (admin tooling, onboarding);
// the application treats them as read-only apart from membership-scoped
// queries.
type Workspace struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name    string               `bson:"name" json:"name"`
	OwnerID primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	Members []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasMember reports whether the given user id is in the membership list.
func (w Workspace) HasMember(userID primitive.ObjectID) bool {
	for _, m := range w.Members {
		if m == userID {
			return true
		}
	}
	return false
}
