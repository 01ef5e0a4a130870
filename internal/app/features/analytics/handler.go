// internal/app/features/analytics/handler.go
package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/docdeck/docdeck/internal/app/features/errors"
	"github.com/docdeck/docdeck/internal/app/features/shared"
	"github.com/docdeck/docdeck/internal/app/live"
	"github.com/docdeck/docdeck/internal/app/system/usage"
	"github.com/docdeck/docdeck/internal/app/system/viewdata"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// Handler renders the analytics view. Usage numbers are deterministic
// synthetic series seeded per client, stable across reloads within a
// session.
type Handler struct {
	Registry *live.Registry
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(registry *live.Registry, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Registry: registry, ErrLog: errLog, Log: logger}
}

type barVM struct {
	Date    string
	Calls   int
	Errors  int
	Percent int
}

type analyticsData struct {
	viewdata.BaseVM
	Snap         live.Snapshot
	Bars         []barVM
	TotalCalls   int
	TotalErrors  int
	ErrorRate    string
	StatusCounts map[string]int
}

func buildBars(data []models.ApiUsageData) []barVM {
	max := 1
	for _, d := range data {
		if d.Calls > max {
			max = d.Calls
		}
	}
	bars := make([]barVM, 0, len(data))
	for _, d := range data {
		bars = append(bars, barVM{
			Date:    d.Date,
			Calls:   d.Calls,
			Errors:  d.Errors,
			Percent: d.Calls * 100 / max,
		})
	}
	return bars
}

// formatErrorRate renders the series error percentage for display.
// usage.ErrorRate already returns a percentage, not a fraction.
func formatErrorRate(series []models.ApiUsageData) string {
	return fmt.Sprintf("%.1f%%", usage.ErrorRate(series))
}

// ServeAnalytics handles GET /analytics.
func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
	cs, u, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	cs.Orchestrator.SetView(live.ViewAnalytics)
	snap := cs.Orchestrator.Snapshot()

	series := usage.Series(usage.SeedFor(u.ClientID), time.Now())
	calls, errs := usage.Totals(series)

	data := analyticsData{
		BaseVM:       viewdata.NewBaseVM(r, "Analytics", "analytics"),
		Snap:         snap,
		Bars:         buildBars(series),
		TotalCalls:   calls,
		TotalErrors:  errs,
		ErrorRate:    formatErrorRate(series),
		StatusCounts: usage.StatusCounts(snap.Apis),
	}
	templates.Render(w, r, "analytics", data)
}
