// Package metrics holds the Prometheus collectors for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the server collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	streamsActive   prometheus.Gauge
	streamsTotal    prometheus.Counter
	streamMessages  *prometheus.CounterVec
	heartbeats      prometheus.Counter
	snapshotServed  prometheus.Counter
	triggerRequests *prometheus.CounterVec
}

// New creates the collectors and registers them with registerer. A nil
// registerer falls back to prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		streamsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zaloga_streams_active",
			Help: "Number of open inventory streams.",
		}),
		streamsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zaloga_streams_opened_total",
			Help: "Total inventory streams opened.",
		}),
		streamMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zaloga_stream_messages_total",
			Help: "Data messages written to streams.",
		}, []string{"type"}), // snapshot | tick
		heartbeats: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zaloga_stream_heartbeats_total",
			Help: "Keep-alive markers written to streams.",
		}),
		snapshotServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zaloga_snapshot_requests_total",
			Help: "Snapshots served over plain HTTP.",
		}),
		triggerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zaloga_trigger_requests_total",
			Help: "Acknowledged transition trigger requests. Triggers do not change state.",
		}, []string{"phase"}),
	}

	registerer.MustRegister(
		m.streamsActive,
		m.streamsTotal,
		m.streamMessages,
		m.heartbeats,
		m.snapshotServed,
		m.triggerRequests,
	)

	return m
}

func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.streamsActive.Inc()
	m.streamsTotal.Inc()
}

func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.streamsActive.Dec()
}

func (m *Metrics) MessageSent(kind string) {
	if m == nil {
		return
	}
	m.streamMessages.WithLabelValues(kind).Inc()
}

func (m *Metrics) HeartbeatSent() {
	if m == nil {
		return
	}
	m.heartbeats.Inc()
}

func (m *Metrics) SnapshotServed() {
	if m == nil {
		return
	}
	m.snapshotServed.Inc()
}

func (m *Metrics) TriggerAcknowledged(phase string) {
	if m == nil {
		return
	}
	m.triggerRequests.WithLabelValues(phase).Inc()
}
