// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/steamvault/internal/backup"
	"github.com/tomtom215/steamvault/internal/config"
	"github.com/tomtom215/steamvault/internal/steam/steamtest"
	"github.com/tomtom215/steamvault/internal/storage"
)

type mockManager struct {
	startErr error
	stopErr  error
	starts   atomic.Int32
	stops    atomic.Int32
	started  chan struct{}
}

func newMockManager() *mockManager {
	return &mockManager{started: make(chan struct{}, 8)}
}

func (m *mockManager) Start(ctx context.Context) error {
	m.starts.Add(1)
	m.started <- struct{}{}
	return m.startErr
}

func (m *mockManager) Stop() error {
	m.stops.Add(1)
	return m.stopErr
}

var (
	_ suture.Service   = (*BackupSchedulerService)(nil)
	_ StartStopManager = (*backup.Manager)(nil)
)

func TestBackupSchedulerService_Lifecycle(t *testing.T) {
	t.Parallel()

	manager := newMockManager()
	svc := NewBackupSchedulerService(manager)
	if svc.String() != "backup-scheduler" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	<-manager.started
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if manager.starts.Load() != 1 || manager.stops.Load() != 1 {
		t.Errorf("starts=%d stops=%d, want 1 each", manager.starts.Load(), manager.stops.Load())
	}
}

func TestBackupSchedulerService_Errors(t *testing.T) {
	t.Parallel()

	startErr := errors.New("already running")
	manager := newMockManager()
	manager.startErr = startErr
	if err := NewBackupSchedulerService(manager).Serve(context.Background()); !errors.Is(err, startErr) {
		t.Errorf("Serve() error = %v, want %v", err, startErr)
	}
	if manager.stops.Load() != 0 {
		t.Error("Stop called after a failed Start")
	}

	stopErr := errors.New("stuck")
	manager = newMockManager()
	manager.stopErr = stopErr
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewBackupSchedulerService(manager).Serve(ctx); !errors.Is(err, stopErr) {
		t.Errorf("Serve() error = %v, want %v", err, stopErr)
	}
}

// TestBackupSchedulerService_RealManager drives a real manager with a
// startup run through the service.
func TestBackupSchedulerService_RealManager(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Steam:   config.SteamConfig{SteamID: "76561197960287930"},
		Storage: config.StorageConfig{Root: "steam"},
		Backup: config.BackupConfig{
			Profile:          true,
			WishlistMaxPages: 1,
			HistoryLimit:     5,
			Schedule: config.ScheduleConfig{
				Enabled:       true,
				Interval:      time.Hour,
				PreferredHour: -1,
				RunOnStartup:  true,
			},
		},
	}
	api := &steamtest.Fake{}
	manager := backup.NewManager(cfg, api, storage.NewMemoryStore())

	done := make(chan *backup.RunRecord, 1)
	manager.SetOnRunComplete(func(r *backup.RunRecord) { done <- r })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- NewBackupSchedulerService(manager).Serve(ctx) }()

	select {
	case r := <-done:
		if r.Trigger != backup.TriggerStartup {
			t.Errorf("Trigger = %q, want startup", r.Trigger)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("startup run did not complete")
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
	if manager.Status().Running {
		t.Error("manager still running after Serve returned")
	}
}
