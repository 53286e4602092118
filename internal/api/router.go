package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/zaloga/internal/catalog"
	"github.com/erazemk/zaloga/internal/clock"
	"github.com/erazemk/zaloga/internal/metrics"
	"github.com/erazemk/zaloga/internal/snapshot"
)

// Deps are the router dependencies. Everything in it is read-only once the
// router is built.
type Deps struct {
	Catalog  *catalog.Catalog
	Schedule snapshot.Schedule
	Clock    clock.Clock
	Metrics  *metrics.Metrics

	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter creates the router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	if d.Clock == nil {
		d.Clock = clock.SystemClock{}
	}

	mux := http.NewServeMux()

	snapshotHandler := &SnapshotHandler{Deps: d}
	streamHandler := &StreamHandler{Deps: d}
	triggerHandler := &TriggerHandler{Deps: d}
	healthHandler := &HealthHandler{Deps: d}

	// Snapshot. /api/inventory is kept for older display clients.
	mux.HandleFunc("GET /api/snapshot", snapshotHandler.Get)
	mux.HandleFunc("GET /api/inventory", snapshotHandler.Get)

	// Live stream.
	mux.HandleFunc("GET /api/stream", streamHandler.Stream)

	// Transition triggers (acknowledgement only). /api/cron/ is the path the
	// scheduler calls.
	mux.HandleFunc("GET /api/trigger/{phase}", triggerHandler.Acknowledge)
	mux.HandleFunc("GET /api/cron/{phase}", triggerHandler.Acknowledge)

	mux.HandleFunc("GET /healthz", healthHandler.Get)
	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}
