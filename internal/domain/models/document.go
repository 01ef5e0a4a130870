// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a markdown document belonging to exactly one workspace.
//
// Content is mutated through the editing session; UpdatedAt is stamped by
// the database on every persisted mutation, never by a client clock. It is
// the only ordering signal used to reconcile concurrent edits
// (last-write-wins per top-level field).
type Document struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
