package api

import (
	"net/http"

	"github.com/erazemk/zaloga/internal/model"
)

// HealthHandler reports liveness and which catalog this instance serves.
type HealthHandler struct {
	Deps
}

// Get handles GET /healthz.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	noStore(w)
	jsonResponse(w, http.StatusOK, map[string]any{
		"ok":             true,
		"items":          h.Catalog.Len(),
		"catalogVersion": h.Catalog.Version(),
		"time":           model.FormatISO(h.Clock.Now()),
	})
}
