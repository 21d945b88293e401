// Package metrics collects Prometheus metrics for the event service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store operation kinds.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Metrics owns a private registry. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry     *prometheus.Registry
	handler      http.Handler
	storeOps     *prometheus.CounterVec
	saveDuration *prometheus.HistogramVec
	rpcRequests  *prometheus.CounterVec
}

// New initializes the registry and the service metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	storeOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eventbook_store_operations_total",
		Help: "Service line store operations issued during saves, by kind and outcome.",
	}, []string{"op", "outcome"})
	saveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventbook_save_duration_seconds",
		Help:    "Duration of event saves.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	rpcRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eventbook_rpc_requests_total",
		Help: "RPC requests by procedure and result code.",
	}, []string{"procedure", "code"})
	registry.MustRegister(storeOps, saveDuration, rpcRequests)
	return &Metrics{
		registry:     registry,
		handler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		storeOps:     storeOps,
		saveDuration: saveDuration,
		rpcRequests:  rpcRequests,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// StoreOp counts one store operation.
func (m *Metrics) StoreOp(op string, err error) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, outcome(err)).Inc()
}

// SaveDone records the duration of a save started at start.
func (m *Metrics) SaveDone(start time.Time, err error) {
	if m == nil {
		return
	}
	m.saveDuration.WithLabelValues(outcome(err)).Observe(time.Since(start).Seconds())
}

// RPC counts one handled procedure call.
func (m *Metrics) RPC(procedure, code string) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
