// internal/app/features/login/handler.go
package login

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/system/auth"
	"github.com/docdeck/docdeck/internal/app/system/viewdata"
)

// Handler renders the sign-in page. DocDeck authenticates exclusively
// through Google OAuth; the actual flow lives in the authgoogle feature.
type Handler struct {
	Log           *zap.Logger
	GoogleEnabled bool
}

func NewHandler(googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		GoogleEnabled: googleEnabled,
	}
}

type loginPageData struct {
	viewdata.BaseVM
	Error         string
	ReturnURL     string
	GoogleEnabled bool
}

// errorMessages maps the error codes set by the OAuth flow to copy shown on
// the sign-in page.
var errorMessages = map[string]string{
	"google_denied":           "Google sign-in was cancelled.",
	"google_not_configured":   "Google sign-in is not configured on this server.",
	"invalid_state":           "The sign-in link expired. Please try again.",
	"invalid_code":            "The sign-in response was incomplete. Please try again.",
	"token_exchange":          "We couldn't complete sign-in with Google. Please try again.",
	"user_info":               "We couldn't read your Google profile. Please try again.",
	"profile":                 "We couldn't set up your account. Please try again.",
	"session":                 "We couldn't start your session. Please try again.",
	"internal":                "Something went wrong. Please try again.",
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := loginPageData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", ""),
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	}
	if code := query.Get(r, "error"); code != "" {
		if msg, ok := errorMessages[code]; ok {
			data.Error = msg
		} else {
			data.Error = errorMessages["internal"]
		}
	}

	templates.Render(w, r, "login", data)
}
