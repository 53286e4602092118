package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/stream"
)

// StreamHandler serves live snapshot streams.
type StreamHandler struct {
	Deps
}

// Stream handles GET /api/stream. The request context is the connection's
// cancellation token: it ends when the client goes away or the server shuts
// down, and the session stops all of its timers with it.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Catalog-Version", h.Catalog.Version())

	sw := stream.NewWriter(w)
	if err := sw.Open(); err != nil {
		// Only a failed flush gets here: the client is already gone.
		slog.Debug("failed to open stream", "error", err)
		return
	}

	session := stream.NewSession(uuid.NewString(), sw, stream.Config{
		Clock:    h.Clock,
		Schedule: h.Schedule,
		Items:    h.Catalog.Items(),
		Metrics:  h.Metrics,
	})
	if err := session.Run(r.Context()); err != nil {
		// The client is gone; this is how most streams end.
		slog.Debug("stream write failed", "stream", session.ID(), "error", err)
	}
}
