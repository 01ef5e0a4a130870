// internal/app/features/apis/routes.go
package apis

import (
	"github.com/go-chi/chi/v5"

	"github.com/docdeck/docdeck/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeCatalog)
	r.Get("/list", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}/key", h.ServeRevealKey)

	return r
}
