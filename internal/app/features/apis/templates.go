// internal/app/features/apis/templates.go
package apis

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "apis",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
