// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/app/system/auth"
	"github.com/docdeck/docdeck/internal/app/system/timeouts"
	"github.com/docdeck/docdeck/internal/app/system/viewdata"
)

var themes = []string{"light", "dark", "system"}

func validTheme(t string) bool {
	for _, v := range themes {
		if t == v {
			return true
		}
	}
	return false
}

// Handler serves the account settings page and the theme preference update.
type Handler struct {
	Users  *users.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users.New(db), ErrLog: errLog, Log: logger}
}

type settingsData struct {
	viewdata.BaseVM
	Themes []string
	Saved  bool
}

// ServeSettings handles GET /settings.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	data := settingsData{
		BaseVM: viewdata.NewBaseVM(r, "Settings", "settings"),
		Themes: themes,
		Saved:  r.URL.Query().Get("saved") == "1",
	}
	templates.Render(w, r, "settings", data)
}

// ServeTheme handles POST /settings/theme.
func (h *Handler) ServeTheme(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	theme := r.FormValue("theme")
	if !validTheme(theme) {
		uierrors.RenderForbidden(w, r, "Unknown theme.", "/settings")
		return
	}

	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	if err := h.Users.SetThemePreference(ctx, id, theme); err != nil {
		h.ErrLog.ServerError(w, r, err, "We couldn't save your theme.")
		return
	}

	// Keep the cookie session's copy in step so the next page paints the
	// new theme without a re-fetch.
	u.Theme = theme

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/settings?saved=1")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}
