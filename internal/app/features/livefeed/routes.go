// internal/app/features/livefeed/routes.go
package livefeed

import (
	"github.com/go-chi/chi/v5"

	"github.com/docdeck/docdeck/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/events", h.ServeEvents)
	return r
}
