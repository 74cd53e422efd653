// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/steamvault/internal/logging"
)

// folderMarkerPrefix marks keys that record a created folder.
const folderMarkerPrefix = "folder:"

// filePrefix namespaces document keys.
const filePrefix = "file:"

// BadgerStore keeps documents in an embedded BadgerDB, one key per file.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// BadgerOptions configures OpenBadgerStore.
type BadgerOptions struct {
	Path       string
	SyncWrites bool

	// InMemory runs without touching disk; Path is ignored.
	InMemory bool
}

// OpenBadgerStore opens (or creates) the database.
func OpenBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("storage: badger path is required")
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
		badgerOpts.SyncWrites = opts.SyncWrites
	}

	// Reduce logging verbosity
	badgerOpts.Logger = nil

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", opts.Path).
		Bool("sync_writes", opts.SyncWrites).
		Bool("in_memory", opts.InMemory).
		Msg("Badger store opened")
	return &BadgerStore{db: db}, nil
}

// Backend implements Store.
func (s *BadgerStore) Backend() string { return "badger" }

// FindOrCreateFolder implements Store.
func (s *BadgerStore) FindOrCreateFolder(ctx context.Context, parent Folder, name string) (Folder, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder := parent.Child(name)
	marker := []byte(folderMarkerPrefix + string(folder))
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(marker)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return txn.Set(marker, nil)
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", folder, err)
	}
	return folder, nil
}

// FindOrCreateFile implements Store.
func (s *BadgerStore) FindOrCreateFile(ctx context.Context, folder Folder, name string, defaultContent []byte) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := []byte(filePrefix + folder.key(name))
	var data []byte
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			data = cloneBytes(defaultContent)
			return txn.Set(key, data)
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("find or create %s: %w", folder.key(name), err)
	}
	return data, nil
}

// ReadFile implements Store.
func (s *BadgerStore) ReadFile(ctx context.Context, folder Folder, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(filePrefix + folder.key(name)))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", folder.key(name), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", folder.key(name), err)
	}
	return data, nil
}

// WriteFile implements Store.
func (s *BadgerStore) WriteFile(ctx context.Context, folder Folder, name string, content []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(filePrefix+folder.key(name)), cloneBytes(content)))
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", folder.key(name), err)
	}
	return nil
}

// DeleteFile implements Store.
func (s *BadgerStore) DeleteFile(ctx context.Context, folder Folder, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(filePrefix + folder.key(name))); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", folder.key(name), err)
	}
	return nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}
