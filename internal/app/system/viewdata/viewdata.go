// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/docdeck/docdeck/internal/app/system/auth"
)

// BaseVM carries the fields every page template needs: titling, nav
// highlighting, and the signed-in user's identity chrome.
type BaseVM struct {
	Title      string
	Active     string
	IsLoggedIn bool
	UserName   string
	UserEmail  string
	AvatarURL  string
	Theme      string
}

// NewBaseVM builds the base view model from the request context. Active
// names the nav entry to highlight ("dashboard", "apis", ...).
func NewBaseVM(r *http.Request, title, active string) BaseVM {
	vm := BaseVM{
		Title:  title,
		Active: active,
		Theme:  "system",
	}
	if u, ok := auth.CurrentUser(r); ok && u != nil {
		vm.IsLoggedIn = true
		vm.UserName = u.Name
		vm.UserEmail = u.Email
		vm.AvatarURL = u.AvatarURL
		if u.Theme != "" {
			vm.Theme = u.Theme
		}
	}
	return vm
}
