// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package services

import (
	"context"
	"fmt"
)

// StartStopManager is the lifecycle of *backup.Manager.
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// BackupSchedulerService runs the backup manager's scheduler under
// supervision.
//
// Start spawns the scheduler goroutine and returns; Serve then waits for
// cancellation and calls Stop, which waits for an in-flight run to notice
// the canceled context and record its history.
type BackupSchedulerService struct {
	manager StartStopManager
	name    string
}

// NewBackupSchedulerService wraps manager.
func NewBackupSchedulerService(manager StartStopManager) *BackupSchedulerService {
	return &BackupSchedulerService{
		manager: manager,
		name:    "backup-scheduler",
	}
}

// Serve implements suture.Service.
func (s *BackupSchedulerService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("backup scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("backup scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer. Suture uses it in log messages.
func (s *BackupSchedulerService) String() string {
	return s.name
}
