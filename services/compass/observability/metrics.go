// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the compass engine.
//
// Metrics are exposed via the /metrics endpoint. All metric operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "crafd"

const compassSubsystem = "compass"

// EngineMetrics holds all Prometheus metrics for the compass engine.
type EngineMetrics struct {
	// RequestsTotal counts API requests by endpoint and status.
	// Labels: endpoint (dashboard, matrix, options, invalidate), status
	// (success, client_error, error)
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures end-to-end handler duration.
	// Labels: endpoint
	RequestDurationSeconds *prometheus.HistogramVec

	// SnapshotRefreshesTotal counts snapshot loads by outcome.
	// Labels: status (success, error)
	SnapshotRefreshesTotal *prometheus.CounterVec

	// SnapshotRefreshDurationSeconds measures one full load: row fetch plus
	// graph assembly.
	SnapshotRefreshDurationSeconds prometheus.Histogram

	// SnapshotCacheHitsTotal counts Get calls served from the cached
	// snapshot without I/O.
	SnapshotCacheHitsTotal prometheus.Counter

	// SnapshotCacheMissesTotal counts Get calls that had to wait on a load.
	SnapshotCacheMissesTotal prometheus.Counter

	// SnapshotAgeSeconds reports the age of the current snapshot.
	SnapshotAgeSeconds prometheus.Gauge
}

// DefaultMetrics is the singleton instance of EngineMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *EngineMetrics

// InitMetrics creates and registers all engine metrics on the default
// Prometheus registry. Call once at startup; a second call panics on
// duplicate registration.
func InitMetrics() *EngineMetrics {
	DefaultMetrics = &EngineMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: compassSubsystem,
				Name:      "requests_total",
				Help:      "Total number of API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: compassSubsystem,
				Name:      "request_duration_seconds",
				Help:      "End-to-end handler duration by endpoint",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		SnapshotRefreshesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: compassSubsystem,
				Name:      "snapshot_refreshes_total",
				Help:      "Total number of snapshot loads by outcome",
			},
			[]string{"status"},
		),
		SnapshotRefreshDurationSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: compassSubsystem,
				Name:      "snapshot_refresh_duration_seconds",
				Help:      "Duration of one snapshot load including graph assembly",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		SnapshotCacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: compassSubsystem,
				Name:      "snapshot_cache_hits_total",
				Help:      "Snapshot reads served from cache without I/O",
			},
		),
		SnapshotCacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: compassSubsystem,
				Name:      "snapshot_cache_misses_total",
				Help:      "Snapshot reads that waited on a load",
			},
		),
		SnapshotAgeSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: compassSubsystem,
				Name:      "snapshot_age_seconds",
				Help:      "Age of the current snapshot",
			},
		),
	}
	return DefaultMetrics
}

// RecordRequest records one API request outcome. Safe to call when metrics
// are not initialized (tests).
func RecordRequest(endpoint, status string, duration time.Duration) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	DefaultMetrics.RequestDurationSeconds.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSnapshotRefresh records one snapshot load outcome.
func RecordSnapshotRefresh(err error, duration time.Duration) {
	if DefaultMetrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.SnapshotRefreshesTotal.WithLabelValues(status).Inc()
	if err == nil {
		DefaultMetrics.SnapshotRefreshDurationSeconds.Observe(duration.Seconds())
	}
}

// RecordSnapshotHit records a cache read served without I/O.
func RecordSnapshotHit(age time.Duration) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.SnapshotCacheHitsTotal.Inc()
	DefaultMetrics.SnapshotAgeSeconds.Set(age.Seconds())
}

// RecordSnapshotMiss records a cache read that waited on a load.
func RecordSnapshotMiss() {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.SnapshotCacheMissesTotal.Inc()
}
