// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/steamvault/internal/config"
	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/metrics"
)

// Open returns the configured backend wrapped with metrics. A dry run
// always gets a fresh MemoryStore so that nothing is persisted.
func Open(ctx context.Context, cfg *config.StorageConfig, dryRun bool) (Store, error) {
	var (
		store Store
		err   error
	)

	backend := cfg.Backend
	if dryRun {
		backend = "memory"
	}

	switch backend {
	case "filesystem":
		store, err = NewFilesystemStore(cfg.Filesystem.Path)
	case "s3":
		store, err = NewS3Store(ctx, &cfg.S3)
	case "badger":
		store, err = OpenBadgerStore(BadgerOptions{Path: cfg.Badger.Path, SyncWrites: cfg.Badger.SyncWrites})
	case "memory":
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logging.Info().Str("backend", backend).Bool("dry_run", dryRun).Msg("Storage backend ready")
	return Instrument(store), nil
}

// Instrument wraps s so every operation is counted and timed.
func Instrument(s Store) Store {
	if _, ok := s.(*instrumentedStore); ok {
		return s
	}
	return &instrumentedStore{next: s}
}

type instrumentedStore struct {
	next Store
}

func (i *instrumentedStore) record(op string, start time.Time, err error) {
	metrics.RecordStorageOperation(i.next.Backend(), op, time.Since(start), err, ErrNotFound)
}

func (i *instrumentedStore) Backend() string { return i.next.Backend() }

func (i *instrumentedStore) FindOrCreateFolder(ctx context.Context, parent Folder, name string) (Folder, error) {
	start := time.Now()
	folder, err := i.next.FindOrCreateFolder(ctx, parent, name)
	i.record("find_or_create_folder", start, err)
	return folder, err
}

func (i *instrumentedStore) FindOrCreateFile(ctx context.Context, folder Folder, name string, defaultContent []byte) ([]byte, error) {
	start := time.Now()
	data, err := i.next.FindOrCreateFile(ctx, folder, name, defaultContent)
	i.record("find_or_create_file", start, err)
	return data, err
}

func (i *instrumentedStore) ReadFile(ctx context.Context, folder Folder, name string) ([]byte, error) {
	start := time.Now()
	data, err := i.next.ReadFile(ctx, folder, name)
	i.record("read", start, err)
	return data, err
}

func (i *instrumentedStore) WriteFile(ctx context.Context, folder Folder, name string, content []byte) error {
	start := time.Now()
	err := i.next.WriteFile(ctx, folder, name, content)
	i.record("write", start, err)
	return err
}

func (i *instrumentedStore) DeleteFile(ctx context.Context, folder Folder, name string) error {
	start := time.Now()
	err := i.next.DeleteFile(ctx, folder, name)
	i.record("delete", start, err)
	return err
}

func (i *instrumentedStore) Close() error { return i.next.Close() }
