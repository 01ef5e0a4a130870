// internal/app/features/shared/clientsession.go
package shared

import (
	"net/http"

	"github.com/docdeck/docdeck/internal/app/live"
	"github.com/docdeck/docdeck/internal/app/system/auth"
)

// ClientSession resolves the live session for the signed-in user. Every
// feature that renders reactive state goes through here so one browser
// session maps to exactly one orchestrator and edit buffer.
func ClientSession(r *http.Request, reg *live.Registry) (*live.ClientSession, *auth.SessionUser, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil || u.ClientID == "" {
		return nil, nil, false
	}
	cs := reg.Get(u.ClientID, live.Identity{
		AuthID:    u.AuthID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	})
	return cs, u, true
}
