// internal/app/features/documents/handler.go
package documents

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/features/shared"
	"github.com/docdeck/docdeck/internal/app/live"
	"github.com/docdeck/docdeck/internal/app/system/markdown"
	"github.com/docdeck/docdeck/internal/app/system/viewdata"
)

// Handler serves the document editor. All state lives in the client's
// editing session; the handlers here translate HTTP into session calls.
type Handler struct {
	Registry *live.Registry
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(registry *live.Registry, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Registry: registry, ErrLog: errLog, Log: logger}
}

type editorData struct {
	viewdata.BaseVM
	DocID     string
	DocTitle  string
	Content   string
	Preview   template.HTML
	Improving bool
}

// ServeEditor handles GET /documents/{id}.
func (h *Handler) ServeEditor(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That document doesn't exist.", "/dashboard")
		return
	}

	cs.Orchestrator.SetView(live.ViewEditor)
	cs.Orchestrator.SelectDocument(id)

	snap := cs.Orchestrator.Snapshot()
	if snap.ActiveDocument == nil || snap.ActiveDocument.ID != id {
		uierrors.RenderNotFound(w, r, "That document isn't in your current workspace.", "/dashboard")
		return
	}

	content := cs.Editor.Content()
	data := editorData{
		BaseVM:    viewdata.NewBaseVM(r, snap.ActiveDocument.Title, "dashboard"),
		DocID:     id.Hex(),
		DocTitle:  snap.ActiveDocument.Title,
		Content:   content,
		Preview:   markdown.Preview(content),
		Improving: cs.Editor.Busy(),
	}
	templates.Render(w, r, "editor", data)
}

// ServeContent handles POST /documents/{id}/content: the autosave path.
// The content lands in the editing session buffer and is persisted after
// the quiet period, not on every keystroke.
func (h *Handler) ServeContent(w http.ResponseWriter, r *http.Request) {
	cs, ok := h.sessionForDoc(w, r)
	if !ok {
		return
	}

	cs.Editor.SetContent(r.FormValue("content"))
	w.WriteHeader(http.StatusNoContent)
}

// ServePreview handles POST /documents/{id}/preview: renders the submitted
// markdown as a partial for the live preview pane.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	_, ok := h.sessionForDoc(w, r)
	if !ok {
		return
	}

	data := struct{ Preview template.HTML }{Preview: markdown.Preview(r.FormValue("content"))}
	templates.Render(w, r, "editor_preview", data)
}

// ServeImprove handles POST /documents/{id}/improve.
func (h *Handler) ServeImprove(w http.ResponseWriter, r *http.Request) {
	cs, ok := h.sessionForDoc(w, r)
	if !ok {
		return
	}

	content, err := cs.Editor.ImproveWithAI(r.Context())
	switch {
	case errors.Is(err, live.ErrImproveBusy):
		w.WriteHeader(http.StatusConflict)
		return
	case errors.Is(err, live.ErrNoDocument):
		w.WriteHeader(http.StatusNotFound)
		return
	case err != nil:
		h.ErrLog.ServerError(w, r, err, "We couldn't improve the document.")
		return
	}

	data := struct {
		DocID   string
		Content string
		Preview template.HTML
	}{DocID: cs.Editor.DocumentID().Hex(), Content: content, Preview: markdown.Preview(content)}
	templates.Render(w, r, "editor_content", data)
}

// sessionForDoc resolves the live session and verifies the URL's document id
// matches the session's seeded document. A mismatch means the client is
// posting against a stale tab.
func (h *Handler) sessionForDoc(w http.ResponseWriter, r *http.Request) (*live.ClientSession, bool) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil || cs.Editor.DocumentID() != id {
		w.WriteHeader(http.StatusConflict)
		return nil, false
	}
	return cs, true
}
