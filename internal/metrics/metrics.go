// Package metrics provides Prometheus metrics for the Filebox client engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Listing metrics
	listingLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_listing_loads_total",
			Help: "Total listing loads issued, by scope kind and status",
		},
		[]string{"scope", "status"},
	)

	listingLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filebox_listing_load_duration_seconds",
			Help:    "Listing load duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	staleResponsesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filebox_stale_responses_discarded_total",
			Help: "Listing responses discarded because their scope was abandoned",
		},
	)

	// Push channel metrics
	pushEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_push_events_total",
			Help: "Push events received, by type and relevance",
		},
		[]string{"type", "relevant"},
	)

	sseReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filebox_sse_reconnects_total",
			Help: "Event stream reconnection attempts",
		},
	)

	// Bulk operation metrics
	bulkOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_bulk_operations_total",
			Help: "Bulk operations dispatched, by operation and status",
		},
		[]string{"op", "status"},
	)

	bulkItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebox_bulk_items_total",
			Help: "Per-item results within bulk operations",
		},
		[]string{"op", "status"},
	)

	// Selection metrics
	selectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filebox_selection_size",
			Help: "Number of currently selected entries",
		},
	)
)

// RecordListingLoad records one completed listing load.
func RecordListingLoad(scopeKind, status string, seconds float64) {
	listingLoadsTotal.WithLabelValues(scopeKind, status).Inc()
	listingLoadDuration.WithLabelValues(scopeKind).Observe(seconds)
}

// RecordStaleDiscard records a listing response dropped for an abandoned scope.
func RecordStaleDiscard() {
	staleResponsesDiscarded.Inc()
}

// RecordPushEvent records one received push event.
func RecordPushEvent(eventType string, relevant bool) {
	label := "false"
	if relevant {
		label = "true"
	}
	pushEventsTotal.WithLabelValues(eventType, label).Inc()
}

// RecordSSEReconnect records an event stream reconnection attempt.
func RecordSSEReconnect() {
	sseReconnectsTotal.Inc()
}

// RecordBulkOperation records the aggregate outcome of one bulk dispatch.
func RecordBulkOperation(op, status string) {
	bulkOperationsTotal.WithLabelValues(op, status).Inc()
}

// RecordBulkItem records one per-item result within a bulk dispatch.
func RecordBulkItem(op, status string) {
	bulkItemsTotal.WithLabelValues(op, status).Inc()
}

// SetSelectionSize updates the selection size gauge.
func SetSelectionSize(n int) {
	selectionSize.Set(float64(n))
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
