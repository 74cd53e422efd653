// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

/*
manager.go - Backup Manager

This file contains the backup manager struct and its lifecycle methods.

Manager Responsibilities:
  - Run orchestration (see manager_run.go)
  - Run serialization: one run at a time, extra requests get ErrRunInProgress
  - Run history in meta.runs.json (see history.go)
  - Scheduler lifecycle (see manager_scheduler.go)

Thread Safety:
  - runMu: held for the whole duration of a run
  - stateMu: protects the status fields read by the API
  - The scheduler and API-triggered runs execute in goroutines tracked by
    a WaitGroup so Stop waits for them
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"github.com/tomtom215/steamvault/internal/config"
	"github.com/tomtom215/steamvault/internal/steam"
	"github.com/tomtom215/steamvault/internal/storage"
)

// Manager runs and schedules backups.
type Manager struct {
	cfg   *config.Config
	api   steam.API
	store storage.Store

	runMu gosync.Mutex

	stateMu       gosync.RWMutex
	currentRunID  string
	lastRun       *RunRecord
	nextScheduled *time.Time
	lastScheduled *time.Time

	// Scheduler
	baseCtx       context.Context
	schedulerStop chan struct{}
	wg            gosync.WaitGroup
	running       bool
	runningMu     gosync.Mutex

	// now is replaced in tests.
	now func() time.Time

	// onRunComplete is invoked after every finished run.
	onRunComplete func(record *RunRecord)
}

// NewManager creates a manager. api is typically a *steam.CircuitBreakerClient
// and store the backend returned by storage.Open.
func NewManager(cfg *config.Config, api steam.API, store storage.Store) *Manager {
	return &Manager{
		cfg:           cfg,
		api:           api,
		store:         store,
		baseCtx:       context.Background(),
		schedulerStop: make(chan struct{}),
		now:           time.Now,
	}
}

// SetOnRunComplete registers a callback invoked after every finished run.
func (m *Manager) SetOnRunComplete(fn func(record *RunRecord)) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.onRunComplete = fn
}

// Start begins the scheduler when it is enabled. ctx bounds every run the
// manager starts on its own.
func (m *Manager) Start(ctx context.Context) error {
	m.runningMu.Lock()
	defer m.runningMu.Unlock()

	if m.running {
		return fmt.Errorf("backup manager is already running")
	}

	m.baseCtx = ctx
	if !m.cfg.Backup.Schedule.Enabled {
		return nil // Scheduling disabled, runs only on request
	}

	m.running = true
	m.schedulerStop = make(chan struct{})

	m.wg.Add(1)
	go m.runScheduler(ctx)

	return nil
}

// Stop stops the scheduler and waits for in-flight runs started by the manager.
func (m *Manager) Stop() error {
	m.runningMu.Lock()
	defer m.runningMu.Unlock()

	if m.running {
		close(m.schedulerStop)
		m.running = false
	}
	m.wg.Wait()
	return nil
}

// Run executes one backup and blocks until it finishes. The returned error
// joins every section failure; the record is returned either way unless the
// run could not start.
func (m *Manager) Run(ctx context.Context, trigger Trigger) (*RunRecord, error) {
	if !m.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer m.runMu.Unlock()

	return m.execute(ctx, newRunID(), trigger)
}

// TriggerRun starts a backup in the background and returns its run ID, or
// ErrRunInProgress.
func (m *Manager) TriggerRun(trigger Trigger) (string, error) {
	if !m.runMu.TryLock() {
		return "", ErrRunInProgress
	}

	m.runningMu.Lock()
	ctx := m.baseCtx
	m.runningMu.Unlock()

	id := newRunID()
	m.setCurrentRun(id)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.runMu.Unlock()
		_, _ = m.execute(ctx, id, trigger) //nolint:errcheck // Logged and recorded in history
	}()
	return id, nil
}

// Status returns the current state for the status API.
func (m *Manager) Status() Status {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return Status{
		Running:       m.currentRunID != "",
		CurrentRunID:  m.currentRunID,
		LastRun:       m.lastRun,
		NextScheduled: m.nextScheduled,
		LastScheduled: m.lastScheduled,
	}
}

func (m *Manager) setCurrentRun(id string) {
	m.stateMu.Lock()
	m.currentRunID = id
	m.stateMu.Unlock()
}

func (m *Manager) finishRun(record *RunRecord) {
	m.stateMu.Lock()
	m.currentRunID = ""
	m.lastRun = record
	callback := m.onRunComplete
	m.stateMu.Unlock()

	if callback != nil {
		callback(record)
	}
}
