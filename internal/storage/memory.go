// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps files in a map. It backs dry runs and tests.
//
// Thread Safety: Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	files   map[string][]byte
	folders map[Folder]bool

	writes  int
	deletes int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files:   make(map[string][]byte),
		folders: make(map[Folder]bool),
	}
}

// Backend implements Store.
func (m *MemoryStore) Backend() string { return "memory" }

// FindOrCreateFolder implements Store.
func (m *MemoryStore) FindOrCreateFolder(ctx context.Context, parent Folder, name string) (Folder, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder := parent.Child(name)
	m.mu.Lock()
	m.folders[folder] = true
	m.mu.Unlock()
	return folder, nil
}

// FindOrCreateFile implements Store.
func (m *MemoryStore) FindOrCreateFile(ctx context.Context, folder Folder, name string, defaultContent []byte) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := folder.key(name)
	if data, ok := m.files[key]; ok {
		return cloneBytes(data), nil
	}
	m.files[key] = cloneBytes(defaultContent)
	m.writes++
	return cloneBytes(defaultContent), nil
}

// ReadFile implements Store.
func (m *MemoryStore) ReadFile(ctx context.Context, folder Folder, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[folder.key(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", folder.key(name), ErrNotFound)
	}
	return cloneBytes(data), nil
}

// WriteFile implements Store.
func (m *MemoryStore) WriteFile(ctx context.Context, folder Folder, name string, content []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.files[folder.key(name)] = cloneBytes(content)
	m.writes++
	m.mu.Unlock()
	return nil
}

// DeleteFile implements Store.
func (m *MemoryStore) DeleteFile(ctx context.Context, folder Folder, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	if _, ok := m.files[folder.key(name)]; ok {
		delete(m.files, folder.key(name))
		m.deletes++
	}
	m.mu.Unlock()
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

// Files lists the names stored in folder (not recursive), sorted.
func (m *MemoryStore) Files(folder Folder) []string {
	prefix := ""
	if folder != RootFolder {
		prefix = string(folder) + "/"
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for key := range m.files {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if strings.Contains(rest, "/") {
			continue
		}
		names = append(names, rest)
	}
	sort.Strings(names)
	return names
}

// Writes returns how many files have been created or overwritten.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Deletes returns how many existing files have been deleted.
func (m *MemoryStore) Deletes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deletes
}

// HasFolder reports whether folder was created.
func (m *MemoryStore) HasFolder(folder Folder) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.folders[folder]
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
