// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/docdeck/docdeck/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeDashboard)
	r.Get("/documents", h.ServeDocumentList)
	r.Post("/documents", h.ServeCreateDocument)
	r.Post("/workspace", h.ServeSelectWorkspace)

	return r
}
