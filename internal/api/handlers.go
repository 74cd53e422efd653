// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/steamvault/internal/backup"
	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/validation"
)

const defaultHistoryLimit = 10

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Running bool   `json:"running"`
}

// StatusResponse is the body of GET /api/v1/backup/status.
type StatusResponse struct {
	backup.Status
	History []*backup.RunRecord `json:"history"`
}

// TriggerResponse is the body of POST /api/v1/backup/run.
type TriggerResponse struct {
	RunID string `json:"run_id"`
}

// statusQuery holds the validated query parameters of the status endpoint.
type statusQuery struct {
	Limit int `validate:"min=1,max=1000"`
}

// Health reports that the daemon is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthResponse{
		Status:  "ok",
		Running: h.backups.Status().Running,
	})
}

// BackupStatus returns the scheduler state and the most recent runs.
func (h *Handler) BackupStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := statusQuery{Limit: defaultHistoryLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			rw.Error(http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer")
			return
		}
		query.Limit = limit
	}
	if verr := validation.ValidateStruct(query); verr != nil {
		rw.ValidationError(verr)
		return
	}

	history, err := h.backups.History(r.Context(), query.Limit)
	if err != nil {
		rw.StorageError(err)
		return
	}

	rw.Success(StatusResponse{
		Status:  h.backups.Status(),
		History: history,
	})
}

// TriggerBackup starts a backup in the background.
func (h *Handler) TriggerBackup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := h.backups.TriggerRun(backup.TriggerManual)
	if errors.Is(err, backup.ErrRunInProgress) {
		rw.Conflict("A backup run is already in progress")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to trigger backup")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "Failed to start backup")
		return
	}

	logging.Ctx(r.Context()).Info().Str("run_id", id).Msg("Backup run triggered via API")
	rw.Accepted(TriggerResponse{RunID: id})
}
