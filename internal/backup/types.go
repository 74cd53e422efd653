// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

// Package backup runs complete Steam backups and schedules them.
//
// A run backs up, in order:
//
//	identity  username -> SteamID64 (fatal when unresolved)
//	profile   GetPlayerSummaries          -> <root>/profile.json
//	wishlist  wishlistdata, paged         -> <root>/wishlist.json
//	games     incremental owned games     -> <root>/games/<appid>.json + meta.list.json
//	playtime  community games page scrape -> <root>/playtime.json
//
// Each section after identity can be disabled and fails independently; a
// failed section does not stop the ones after it. Every run is recorded in
// <root>/meta.runs.json.
//
// Usage:
//
//	manager := backup.NewManager(cfg, api, store)
//	manager.Start(ctx)  // Start scheduled runs
//
//	// Manual run
//	record, err := manager.Run(ctx, backup.TriggerManual)
package backup

import (
	"errors"
	"time"

	"github.com/tomtom215/steamvault/internal/sync"
)

// ErrRunInProgress is returned when a run is requested while another is executing.
var ErrRunInProgress = errors.New("backup: a run is already in progress")

// Trigger records what started a run.
type Trigger string

const (
	// TriggerManual is a run requested through the API.
	TriggerManual Trigger = "manual"

	// TriggerScheduled is a run started by the scheduler.
	TriggerScheduled Trigger = "scheduled"

	// TriggerStartup is the optional run when the daemon starts.
	TriggerStartup Trigger = "startup"

	// TriggerCLI is a one-shot `steamvault run`.
	TriggerCLI Trigger = "cli"
)

// RunStatus is the outcome of a run.
type RunStatus string

const (
	// StatusRunning is a run that has not finished yet.
	StatusRunning RunStatus = "running"

	// StatusSuccess means every enabled section completed without errors.
	StatusSuccess RunStatus = "success"

	// StatusPartial means at least one section or game failed but something was backed up.
	StatusPartial RunStatus = "partial"

	// StatusFailed means nothing was backed up.
	StatusFailed RunStatus = "failed"
)

// Section names, also used as metric labels.
const (
	SectionIdentity = "identity"
	SectionProfile  = "profile"
	SectionWishlist = "wishlist"
	SectionGames    = "games"
	SectionPlaytime = "playtime"
)

// Output document names.
const (
	ProfileFileName  = "profile.json"
	WishlistFileName = "wishlist.json"
	PlaytimeFileName = "playtime.json"
	HistoryFileName  = "meta.runs.json"
	GamesFolderName  = "games"
)

// SectionResult is the outcome of one section of a run.
type SectionResult struct {
	Status   RunStatus     `json:"status"`
	Items    int           `json:"items"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// RunRecord describes one backup run.
type RunRecord struct {
	ID          string                    `json:"id"`
	Trigger     Trigger                   `json:"trigger"`
	Status      RunStatus                 `json:"status"`
	DryRun      bool                      `json:"dry_run,omitempty"`
	SteamID     string                    `json:"steam_id,omitempty"`
	StartedAt   time.Time                 `json:"started_at"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	Duration    time.Duration             `json:"duration"`
	Sections    map[string]*SectionResult `json:"sections"`
	Games       *sync.SyncResult          `json:"games,omitempty"`
	Errors      []string                  `json:"errors,omitempty"`
}

// RunHistory is the content of meta.runs.json, newest run first.
type RunHistory struct {
	Runs []*RunRecord `json:"runs"`
}

// Status is a point-in-time view of the manager for the status API.
type Status struct {
	Running       bool       `json:"running"`
	CurrentRunID  string     `json:"current_run_id,omitempty"`
	LastRun       *RunRecord `json:"last_run,omitempty"`
	NextScheduled *time.Time `json:"next_scheduled,omitempty"`
	LastScheduled *time.Time `json:"last_scheduled,omitempty"`
}
