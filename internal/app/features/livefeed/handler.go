// internal/app/features/livefeed/handler.go
package livefeed

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/features/shared"
	"github.com/docdeck/docdeck/internal/app/live"
)

// keepAliveInterval bounds how long a proxy sees no bytes on the stream.
const keepAliveInterval = 25 * time.Second

// Handler streams snapshot change events to the browser over SSE. The
// events carry no payload; HTMX refetches the affected partials.
type Handler struct {
	Registry *live.Registry
	Log      *zap.Logger
}

func NewHandler(registry *live.Registry, logger *zap.Logger) *Handler {
	return &Handler{Registry: registry, Log: logger}
}

// ServeEvents handles GET /live/events.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := shared.ClientSession(r, h.Registry)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticks, cancel := cs.Changes()
	defer cancel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	// Tell the client the stream is live before the first change.
	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-ticks:
			for _, name := range []string{"workspaces", "documents", "apis"} {
				fmt.Fprintf(w, "event: %s\ndata: {}\n\n", name)
			}
			flusher.Flush()
		}
	}
}
