// internal/app/features/documents/routes.go
package documents

import (
	"github.com/go-chi/chi/v5"

	"github.com/docdeck/docdeck/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/{id}", h.ServeEditor)
	r.Post("/{id}/content", h.ServeContent)
	r.Post("/{id}/preview", h.ServePreview)
	r.Post("/{id}/improve", h.ServeImprove)

	return r
}
