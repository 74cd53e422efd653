// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

// Package storage is the file store backups are written to.
//
// The surface is deliberately small: folders are found or created by name,
// files are read, written (create or overwrite) and deleted by name within
// a folder. Backends:
//   - filesystem: directories on local disk, atomic writes
//   - s3: S3-compatible object store, folders are key prefixes
//   - badger: embedded key-value store, keys are "folder/name"
//   - memory: in-process map, used for dry runs and tests
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned by ReadFile when the file does not exist.
var ErrNotFound = errors.New("storage: file not found")

// Folder is a slash-separated folder path relative to the backend root.
// The zero value is the backend root itself.
type Folder string

// RootFolder is the backend root.
const RootFolder Folder = ""

// Child returns the folder named name inside f.
func (f Folder) Child(name string) Folder {
	if f == RootFolder {
		return Folder(name)
	}
	return Folder(string(f) + "/" + name)
}

// key joins folder and file name into a slash-separated key.
func (f Folder) key(name string) string {
	if f == RootFolder {
		return name
	}
	return path.Join(string(f), name)
}

// Store is a minimal file store.
type Store interface {
	// Backend names the implementation ("filesystem", "s3", ...).
	Backend() string

	// FindOrCreateFolder returns the folder named name inside parent,
	// creating it when the backend has real folders.
	FindOrCreateFolder(ctx context.Context, parent Folder, name string) (Folder, error)

	// FindOrCreateFile returns the content of folder/name, first creating it
	// with defaultContent when it does not exist.
	FindOrCreateFile(ctx context.Context, folder Folder, name string, defaultContent []byte) ([]byte, error)

	// ReadFile returns the content of folder/name or ErrNotFound.
	ReadFile(ctx context.Context, folder Folder, name string) ([]byte, error)

	// WriteFile creates or overwrites folder/name.
	WriteFile(ctx context.Context, folder Folder, name string, content []byte) error

	// DeleteFile removes folder/name. Deleting a missing file is not an error.
	DeleteFile(ctx context.Context, folder Folder, name string) error

	Close() error
}

// validateName rejects names that would escape their folder.
func validateName(name string) error {
	switch {
	case name == "":
		return errors.New("storage: empty name")
	case name == "." || name == "..":
		return fmt.Errorf("storage: invalid name %q", name)
	case strings.ContainsAny(name, "/\\"):
		return fmt.Errorf("storage: name %q must not contain path separators", name)
	}
	return nil
}

// MarshalDocument encodes v the way every backup document is stored:
// JSON indented with four spaces.
func MarshalDocument(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "    ")
}

// WriteJSON encodes v with MarshalDocument and writes it to folder/name.
func WriteJSON(ctx context.Context, s Store, folder Folder, name string, v interface{}) error {
	data, err := MarshalDocument(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.WriteFile(ctx, folder, name, data)
}

// ReadJSON reads folder/name and decodes it into v. A missing file is
// returned as ErrNotFound.
func ReadJSON(ctx context.Context, s Store, folder Folder, name string, v interface{}) error {
	data, err := s.ReadFile(ctx, folder, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", folder.key(name), err)
	}
	return nil
}

// FindOrCreateJSON decodes folder/name into v, creating the file with the
// encoding of defaultValue when it does not exist.
func FindOrCreateJSON(ctx context.Context, s Store, folder Folder, name string, defaultValue, v interface{}) error {
	defaultContent, err := MarshalDocument(defaultValue)
	if err != nil {
		return fmt.Errorf("encode default %s: %w", name, err)
	}
	data, err := s.FindOrCreateFile(ctx, folder, name, defaultContent)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", folder.key(name), err)
	}
	return nil
}
