// internal/app/features/workspaces/handler.go
package workspaces

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/live"
	"github.com/docdeck/docdeck/internal/app/policy/workspacepolicy"
	"github.com/docdeck/docdeck/internal/app/store/users"
	wsstore "github.com/docdeck/docdeck/internal/app/store/workspaces"
	"github.com/docdeck/docdeck/internal/app/system/auth"
	"github.com/docdeck/docdeck/internal/app/system/timeouts"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// Handler covers workspace lifecycle: creation and membership management.
// Reads go through the live snapshot on the dashboard; this handler only
// writes, then kicks the workspace topic so every member's session refreshes.
type Handler struct {
	Workspaces *wsstore.Store
	Users      *users.Store
	Gateway    *live.MongoGateway
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, gateway *live.MongoGateway, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Workspaces: wsstore.New(db),
		Users:      users.New(db),
		Gateway:    gateway,
		ErrLog:     errLog,
		Log:        logger,
	}
}

// ServeCreate handles POST /workspaces. The creator becomes the owner and
// first member.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		uierrors.RenderForbidden(w, r, "The workspace needs a name.", "/dashboard")
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	ws, err := h.Workspaces.Create(ctx, models.Workspace{
		Name:    name,
		OwnerID: ownerID,
		Members: []primitive.ObjectID{ownerID},
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "We couldn't create the workspace.")
		return
	}
	h.Gateway.NotifyWorkspaces()

	h.Log.Info("workspace created",
		zap.String("workspace_id", ws.ID.Hex()),
		zap.String("owner_id", u.ID))

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/dashboard")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ServeAddMember handles POST /workspaces/{id}/members. Members are invited
// by the email on their profile; only existing members may invite.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	wsID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That workspace doesn't exist.", "/dashboard")
		return
	}
	callerID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ws, err := h.Workspaces.GetByID(ctx, wsID)
	if err != nil {
		if errors.Is(err, wsstore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "That workspace doesn't exist.", "/dashboard")
			return
		}
		h.ErrLog.ServerError(w, r, err, "")
		return
	}
	if !workspacepolicy.CanInvite(ws, callerID) {
		uierrors.RenderForbidden(w, r, "Only members can invite to a workspace.", "/dashboard")
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	invited, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "No account exists for that email.", "/dashboard")
			return
		}
		h.ErrLog.ServerError(w, r, err, "")
		return
	}

	if err := h.Workspaces.AddMember(ctx, wsID, invited.ID); err != nil {
		h.ErrLog.ServerError(w, r, err, "We couldn't add that member.")
		return
	}
	h.Gateway.NotifyWorkspaces()

	h.Log.Info("member added",
		zap.String("workspace_id", wsID.Hex()),
		zap.String("user_id", invited.ID.Hex()))

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/dashboard")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ServeMembers handles GET /workspaces/{id}/members: the roster partial.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	wsID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	callerID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ws, err := h.Workspaces.GetByID(ctx, wsID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !workspacepolicy.CanView(ws, callerID) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	members, err := h.Gateway.Members(ctx, ws)
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "")
		return
	}

	data := struct {
		WorkspaceID string
		Members     []models.UserProfile
	}{WorkspaceID: wsID.Hex(), Members: members}
	templates.Render(w, r, "workspace_members", data)
}
