// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile is the stored profile for an authenticated user.
//
// A profile is materialized on first successful login from the identity
// provider's claims. The identity key (AuthID) never changes; display
// fields track whatever the provider reports on later logins.
type UserProfile struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// AuthID is the opaque subject identifier from the identity provider
	// (Google's user id). Unique per provider account.
	AuthID string `bson:"auth_id" json:"auth_id"`

	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	// ThemePreference is "light" or "dark" (blank means default).
	ThemePreference string `bson:"theme_preference,omitempty" json:"theme_preference,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
