// internal/app/features/apis/handler.go
package apis

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/features/shared"
	"github.com/docdeck/docdeck/internal/app/live"
	apistore "github.com/docdeck/docdeck/internal/app/store/apis"
	"github.com/docdeck/docdeck/internal/app/system/apikeys"
	"github.com/docdeck/docdeck/internal/app/system/timeouts"
	"github.com/docdeck/docdeck/internal/app/system/viewdata"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// Handler serves the API catalog: the searchable registration list for the
// active workspace, the create form, and the key reveal partial.
type Handler struct {
	Registry *live.Registry
	Gateway  live.Gateway
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(registry *live.Registry, gateway live.Gateway, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Registry: registry, Gateway: gateway, ErrLog: errLog, Log: logger}
}

type apiVM struct {
	ID          string
	Name        string
	Description string
	Version     string
	Status      string
	MaskedKey   string
	CreatedAt   string
}

type catalogData struct {
	viewdata.BaseVM
	Snap     live.Snapshot
	Search   string
	Apis     []apiVM
	Statuses []string
}

// filterApis applies the case-insensitive search over name and description.
func filterApis(regs []models.ApiRegistration, search string) []apiVM {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]apiVM, 0, len(regs))
	for _, reg := range regs {
		if needle != "" &&
			!strings.Contains(strings.ToLower(reg.Name), needle) &&
			!strings.Contains(strings.ToLower(reg.Description), needle) {
			continue
		}
		out = append(out, apiVM{
			ID:          reg.ID.Hex(),
			Name:        reg.Name,
			Description: reg.Description,
			Version:     reg.Version,
			Status:      reg.Status,
			MaskedKey:   apikeys.Mask(reg.ApiKey),
			CreatedAt:   reg.CreatedAt.Format("Jan 2, 2006"),
		})
	}
	return out
}

func (h *Handler) catalogData(r *http.Request, cs *live.ClientSession) catalogData {
	snap := cs.Orchestrator.Snapshot()
	search := query.Get(r, "search")
	return catalogData{
		BaseVM:   viewdata.NewBaseVM(r, "APIs", "apis"),
		Snap:     snap,
		Search:   search,
		Apis:     filterApis(snap.Apis, search),
		Statuses: []string{models.ApiStatusDevelopment, models.ApiStatusActive, models.ApiStatusDeprecated},
	}
}

// ServeCatalog handles GET /apis.
func (h *Handler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	cs.Orchestrator.SetView(live.ViewApis)
	templates.Render(w, r, "api_catalog", h.catalogData(r, cs))
}

// ServeList handles GET /apis/list: the list partial HTMX refetches on
// search input and on live change events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	templates.Render(w, r, "api_list", h.catalogData(r, cs))
}

// ServeCreate handles POST /apis. The key is generated server-side; the
// form never carries one.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	snap := cs.Orchestrator.Snapshot()
	if snap.ActiveWorkspace == nil {
		uierrors.RenderForbidden(w, r, "Select a workspace before registering APIs.", "/apis")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		uierrors.RenderForbidden(w, r, "The API needs a name.", "/apis")
		return
	}
	fields := apistore.Fields{
		Name:        name,
		Description: strings.TrimSpace(r.FormValue("description")),
		Version:     strings.TrimSpace(r.FormValue("version")),
		Status:      r.FormValue("status"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	if _, err := h.Gateway.CreateApi(ctx, snap.ActiveWorkspace.ID, fields); err != nil {
		h.ErrLog.ServerError(w, r, err, "We couldn't register the API.")
		return
	}

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/apis")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/apis", http.StatusSeeOther)
}

// ServeRevealKey handles GET /apis/{id}/key. The full key is only ever
// rendered through this partial, on explicit request.
func (h *Handler) ServeRevealKey(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	snap := cs.Orchestrator.Snapshot()
	for _, reg := range snap.Apis {
		if reg.ID == id {
			data := struct{ ID, Key string }{ID: reg.ID.Hex(), Key: reg.ApiKey}
			templates.Render(w, r, "api_key", data)
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}
