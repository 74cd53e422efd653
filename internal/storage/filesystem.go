// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilesystemStore keeps folders as directories under a base path.
//
// Writes go to a temporary file in the target directory which is synced
// and renamed over the destination, so a reader never sees a partial
// document.
type FilesystemStore struct {
	base string
}

var _ Store = (*FilesystemStore)(nil)

// NewFilesystemStore creates base if needed and returns a store rooted there.
func NewFilesystemStore(base string) (*FilesystemStore, error) {
	if base == "" {
		return nil, errors.New("storage: filesystem path is required")
	}
	if err := os.MkdirAll(base, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FilesystemStore{base: base}, nil
}

// Backend implements Store.
func (s *FilesystemStore) Backend() string { return "filesystem" }

func (s *FilesystemStore) dir(folder Folder) string {
	return filepath.Join(s.base, filepath.FromSlash(string(folder)))
}

// FindOrCreateFolder implements Store.
func (s *FilesystemStore) FindOrCreateFolder(ctx context.Context, parent Folder, name string) (Folder, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder := parent.Child(name)
	if err := os.MkdirAll(s.dir(folder), 0o750); err != nil {
		return "", fmt.Errorf("create folder %s: %w", folder, err)
	}
	return folder, nil
}

// FindOrCreateFile implements Store.
func (s *FilesystemStore) FindOrCreateFile(ctx context.Context, folder Folder, name string, defaultContent []byte) ([]byte, error) {
	data, err := s.ReadFile(ctx, folder, name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err := s.WriteFile(ctx, folder, name, defaultContent); err != nil {
		return nil, err
	}
	return defaultContent, nil
}

// ReadFile implements Store.
func (s *FilesystemStore) ReadFile(ctx context.Context, folder Folder, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir(folder), name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", folder.key(name), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", folder.key(name), err)
	}
	return data, nil
}

// WriteFile implements Store.
func (s *FilesystemStore) WriteFile(ctx context.Context, folder Folder, name string, content []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.dir(folder)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create folder %s: %w", folder, err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", folder.key(name), err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", folder.key(name), err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync %s: %w", folder.key(name), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", folder.key(name), err)
	}
	if err := os.Chmod(tmpName, 0o640); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", folder.key(name), err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", folder.key(name), err)
	}
	return nil
}

// DeleteFile implements Store.
func (s *FilesystemStore) DeleteFile(ctx context.Context, folder Folder, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir(folder), name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", folder.key(name), err)
	}
	return nil
}

// Close implements Store.
func (s *FilesystemStore) Close() error { return nil }
