// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

// Package metrics defines the Prometheus metrics exported by Steamvault.
//
// All metrics are registered on the default registry via promauto and are
// served at /metrics by `steamvault serve`. One-shot `steamvault run`
// invocations record them too; they are simply never scraped.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backup Run Metrics
	BackupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_backup_runs_total",
			Help: "Total number of backup runs by final status",
		},
		[]string{"status"}, // "success", "partial", "failed"
	)

	BackupRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "steamvault_backup_run_duration_seconds",
			Help:    "Duration of backup runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600}, // Large libraries take tens of minutes
		},
	)

	BackupLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "steamvault_backup_last_success_timestamp",
			Help: "Unix timestamp of the last backup run without errors",
		},
	)

	BackupSectionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_backup_section_errors_total",
			Help: "Total number of failed backup sections",
		},
		[]string{"section"}, // "identity", "profile", "wishlist", "games", "playtime"
	)

	BackupRunInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "steamvault_backup_run_in_progress",
			Help: "1 while a backup run is executing",
		},
	)

	// Games Synchronizer Metrics
	GamesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_games_processed_total",
			Help: "Total number of owned games processed by result",
		},
		[]string{"result"}, // "updated", "skipped", "failed", "pruned"
	)

	GamesOwned = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "steamvault_games_owned",
			Help: "Number of games in the most recent owned-games list",
		},
	)

	// Metadata Cache Metrics
	MetadataCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "steamvault_metadata_cache_hits_total",
			Help: "Total number of app metadata lookups served from the per-run cache",
		},
	)

	MetadataCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_metadata_cache_misses_total",
			Help: "Total number of app metadata lookups that went upstream, by source",
		},
		[]string{"source"}, // "catalog", "store", "unresolved"
	)

	// Steam API Metrics
	SteamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_steam_requests_total",
			Help: "Total number of requests sent to Steam",
		},
		[]string{"endpoint", "status_code"},
	)

	SteamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steamvault_steam_request_duration_seconds",
			Help:    "Steam request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	SteamRateLimitWaits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_steam_rate_limit_waits_total",
			Help: "Total number of requests delayed by the client-side rate limiter",
		},
		[]string{"host"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steamvault_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steamvault_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Storage Metrics
	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_storage_operations_total",
			Help: "Total number of file store operations",
		},
		[]string{"backend", "operation", "result"}, // result: "ok", "not_found", "error"
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steamvault_storage_operation_duration_seconds",
			Help:    "File store operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"backend", "operation"},
	)

	// Status API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamvault_api_requests_total",
			Help: "Total number of status API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steamvault_api_request_duration_seconds",
			Help:    "Status API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "steamvault_api_active_requests",
			Help: "Status API requests currently being served",
		},
	)
)

// RecordBackupRun records the outcome of one backup run.
func RecordBackupRun(status string, duration time.Duration) {
	BackupRunsTotal.WithLabelValues(status).Inc()
	BackupRunDuration.Observe(duration.Seconds())
	if status == "success" {
		BackupLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordSectionError counts a failed backup section.
func RecordSectionError(section string) {
	BackupSectionErrors.WithLabelValues(section).Inc()
}

// SetRunInProgress flips the in-progress gauge.
func SetRunInProgress(running bool) {
	if running {
		BackupRunInProgress.Set(1)
	} else {
		BackupRunInProgress.Set(0)
	}
}

// RecordGameResult counts one game by result.
func RecordGameResult(result string) {
	GamesProcessed.WithLabelValues(result).Inc()
}

// RecordSteamRequest records a completed Steam HTTP request. A statusCode of
// 0 means the request failed before a response arrived.
func RecordSteamRequest(endpoint string, statusCode int, duration time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	SteamRequestsTotal.WithLabelValues(endpoint, code).Inc()
	SteamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordStorageOperation records a file store call. notFound is checked with
// errors.Is so callers can pass their backend's sentinel.
func RecordStorageOperation(backend, operation string, duration time.Duration, err, notFound error) {
	result := "ok"
	switch {
	case err == nil:
	case notFound != nil && errors.Is(err, notFound):
		result = "not_found"
	default:
		result = "error"
	}
	StorageOperations.WithLabelValues(backend, operation, result).Inc()
	StorageOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordAPIRequest records a served status API request. route is the chi
// route pattern, not the raw path.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
