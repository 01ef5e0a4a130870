// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/system/viewdata"
)

// ErrorLogger logs handler failures and renders the generic error page, so
// individual handlers don't repeat the log-then-render dance.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// ServerError logs err with context and renders a 500 page. msg is shown to
// the user; keep it generic.
func (e *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	e.log.Error("handler error",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))

	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	w.WriteHeader(http.StatusInternalServerError)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Error", ""),
		Message: msg,
		BackURL: "/dashboard",
	}
	templates.Render(w, r, "error_page", data)
}
