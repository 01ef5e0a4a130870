// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/features/shared"
	"github.com/docdeck/docdeck/internal/app/live"
	"github.com/docdeck/docdeck/internal/app/system/markdown"
	"github.com/docdeck/docdeck/internal/app/system/timeouts"
	"github.com/docdeck/docdeck/internal/app/system/viewdata"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// Handler renders the workspace dashboard: the workspace switcher, the
// document list, and the member roster, all fed from the client's live
// session snapshot.
type Handler struct {
	Registry *live.Registry
	Gateway  live.Gateway
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(registry *live.Registry, gateway live.Gateway, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Registry: registry,
		Gateway:  gateway,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type documentVM struct {
	ID        string
	Title     string
	Snippet   string
	UpdatedAt string
}

type dashboardData struct {
	viewdata.BaseVM
	Snap      live.Snapshot
	Documents []documentVM
	Members   []models.UserProfile
}

func buildDocumentVMs(docs []models.Document) []documentVM {
	out := make([]documentVM, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentVM{
			ID:        d.ID.Hex(),
			Title:     d.Title,
			Snippet:   markdown.Snippet(d.Content, 140),
			UpdatedAt: d.UpdatedAt.Format("Jan 2, 2006 15:04"),
		})
	}
	return out
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	cs.Orchestrator.SetView(live.ViewDashboard)
	snap := cs.Orchestrator.Snapshot()

	data := dashboardData{
		BaseVM:    viewdata.NewBaseVM(r, "Dashboard", "dashboard"),
		Snap:      snap,
		Documents: buildDocumentVMs(snap.Documents),
	}
	if snap.ActiveWorkspace != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()
		members, err := h.Gateway.Members(ctx, *snap.ActiveWorkspace)
		if err != nil {
			// The roster is decoration; the dashboard still renders.
			h.Log.Warn("member lookup failed", zap.Error(err))
		}
		data.Members = members
	}

	templates.Render(w, r, "dashboard", data)
}

// ServeDocumentList handles GET /dashboard/documents. It renders just the
// document list partial; the SSE feed triggers HTMX to refresh it.
func (h *Handler) ServeDocumentList(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	snap := cs.Orchestrator.Snapshot()

	data := dashboardData{
		BaseVM:    viewdata.NewBaseVM(r, "Dashboard", "dashboard"),
		Snap:      snap,
		Documents: buildDocumentVMs(snap.Documents),
	}
	templates.Render(w, r, "dashboard_documents", data)
}

// ServeSelectWorkspace handles POST /dashboard/workspace. Switching tears
// down the previous workspace's subscriptions before the redirect lands.
func (h *Handler) ServeSelectWorkspace(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := primitive.ObjectIDFromHex(r.FormValue("workspace_id"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	cs.Orchestrator.SelectWorkspace(id)

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/dashboard")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ServeCreateDocument handles POST /dashboard/documents. The new document
// is created in the active workspace and the editor opens on it.
func (h *Handler) ServeCreateDocument(w http.ResponseWriter, r *http.Request) {
	cs, u, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	snap := cs.Orchestrator.Snapshot()
	if snap.ActiveWorkspace == nil {
		uierrors.RenderForbidden(w, r, "Select a workspace before creating documents.", "/dashboard")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = "Untitled document"
	}

	authorID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	doc, err := h.Gateway.CreateDocument(ctx, models.Document{
		Title:       title,
		Content:     "# " + title + "\n",
		WorkspaceID: snap.ActiveWorkspace.ID,
		AuthorID:    authorID,
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "We couldn't create the document.")
		return
	}

	http.Redirect(w, r, "/documents/"+doc.ID.Hex(), http.StatusSeeOther)
}
