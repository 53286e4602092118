package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/model"
)

// TriggerHandler acknowledges morning and night transition requests.
//
// Snapshots are derived from wall-clock time alone, so a trigger cannot move
// the warehouse into another phase: it changes nothing and only reports the
// nominal boundary and the time of acknowledgement. This keeps every instance
// stateless and interchangeable. Clients that expect a trigger to force an
// update will see no change until the real boundary passes.
type TriggerHandler struct {
	Deps
}

type triggerResponse struct {
	OK        bool   `json:"ok"`
	Scheduled string `json:"scheduled"`
	At        string `json:"at"`
}

// Acknowledge handles GET /api/trigger/{phase}.
func (h *TriggerHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	phase := model.Phase(r.PathValue("phase"))
	if phase != model.PhaseMorning && phase != model.PhaseNight {
		jsonError(w, http.StatusNotFound, "unknown transition")
		return
	}

	now := h.Clock.Now()
	scheduled := h.Schedule.Label(phase)
	h.Metrics.TriggerAcknowledged(string(phase))
	slog.Info("transition trigger acknowledged", "phase", phase, "scheduled", scheduled)

	noStore(w)
	jsonResponse(w, http.StatusOK, triggerResponse{
		OK:        true,
		Scheduled: scheduled,
		At:        model.FormatISO(now),
	})
}
