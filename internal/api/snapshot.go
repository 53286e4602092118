package api

import (
	"net/http"
)

// SnapshotHandler serves the current snapshot.
type SnapshotHandler struct {
	Deps
}

// Get handles GET /api/snapshot.
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.Schedule.Compute(h.Clock.Now(), h.Catalog.Items())
	h.Metrics.SnapshotServed()

	noStore(w)
	w.Header().Set("X-Catalog-Version", h.Catalog.Version())
	jsonResponse(w, http.StatusOK, snap)
}
