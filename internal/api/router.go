// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/steamvault/internal/backup"
	"github.com/tomtom215/steamvault/internal/config"
	"github.com/tomtom215/steamvault/internal/middleware"
)

// BackupService is the part of *backup.Manager the API uses.
type BackupService interface {
	Status() backup.Status
	History(ctx context.Context, limit int) ([]*backup.RunRecord, error)
	TriggerRun(trigger backup.Trigger) (string, error)
}

var _ BackupService = (*backup.Manager)(nil)

// Handler holds the dependencies of the API handlers.
type Handler struct {
	backups BackupService
}

// NewHandler creates the handler set.
func NewHandler(backups BackupService) *Handler {
	return &Handler{backups: backups}
}

// NewRouter builds the status API:
//
//	GET  /healthz
//	GET  /metrics
//	GET  /api/v1/backup/status?limit=N
//	POST /api/v1/backup/run
func NewRouter(backups BackupService, cfg *config.ServerConfig) http.Handler {
	h := NewHandler(backups)
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/backup", func(r chi.Router) {
		r.Use(middleware.Compression)
		r.Get("/status", h.BackupStatus)
		r.With(TriggerRateLimit(cfg.TriggerRateLimit)).Post("/run", h.TriggerBackup)
	})

	return r
}
