// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Package metrics defines the Prometheus instrumentation surface.
// All collectors are registered on the default registry via promauto and
// exposed on /metrics by the API router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts HTTP requests by method, endpoint and status code.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posteratlas_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration observes HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "posteratlas_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// APIActiveRequests tracks in-flight HTTP requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "posteratlas_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// DBQueryDuration observes datastore query latency by operation and table.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "posteratlas_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation", "table"},
	)

	// StatusChangesTotal counts accepted status changes by new status.
	StatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posteratlas_status_changes_total",
			Help: "Total number of recorded board status changes",
		},
		[]string{"status"},
	)

	// DegradedReadsTotal counts reads served empty after a backend failure.
	DegradedReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posteratlas_degraded_reads_total",
			Help: "Total number of reads that failed soft to an empty result",
		},
		[]string{"endpoint"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordDBQuery records one datastore query.
func RecordDBQuery(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordStatusChange counts one accepted status change.
func RecordStatusChange(status string) {
	StatusChangesTotal.WithLabelValues(status).Inc()
}

// RecordDegradedRead counts one fail-soft read.
func RecordDegradedRead(endpoint string) {
	DegradedReadsTotal.WithLabelValues(endpoint).Inc()
}
