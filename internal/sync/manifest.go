// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package sync

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/tomtom215/steamvault/internal/storage"
)

// ManifestFileName is the manifest document inside the games folder.
const ManifestFileName = "meta.list.json"

// ManifestEntry is the last-played snapshot of a backed-up game.
type ManifestEntry struct {
	AppID           int   `json:"appid"`
	RTimeLastPlayed int64 `json:"rtime_last_played"`
}

// Manifest maps appid to the snapshot taken when its document was written.
// An entry exists only while the game's document exists.
type Manifest map[int]ManifestEntry

// DocumentName returns the file name of a game's document.
func DocumentName(appID int) string {
	return strconv.Itoa(appID) + ".json"
}

// ManifestStore reads and writes the manifest and the per-game documents
// of one games folder.
type ManifestStore struct {
	store  storage.Store
	folder storage.Folder
}

// NewManifestStore returns a ManifestStore for folder.
func NewManifestStore(store storage.Store, folder storage.Folder) *ManifestStore {
	return &ManifestStore{store: store, folder: folder}
}

// Load reads the manifest, creating an empty one when absent.
func (m *ManifestStore) Load(ctx context.Context) (Manifest, error) {
	var manifest Manifest
	if err := storage.FindOrCreateJSON(ctx, m.store, m.folder, ManifestFileName, Manifest{}, &manifest); err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if manifest == nil {
		manifest = Manifest{}
	}
	for appID, entry := range manifest {
		entry.AppID = appID
		manifest[appID] = entry
	}
	return manifest, nil
}

// Save writes the full manifest.
func (m *ManifestStore) Save(ctx context.Context, manifest Manifest) error {
	if err := storage.WriteJSON(ctx, m.store, m.folder, ManifestFileName, manifest); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

// WriteDocument writes doc to <appid>.json.
func (m *ManifestStore) WriteDocument(ctx context.Context, doc *GameDocument) error {
	if err := storage.WriteJSON(ctx, m.store, m.folder, DocumentName(doc.AppID), doc); err != nil {
		return fmt.Errorf("write document %d: %w", doc.AppID, err)
	}
	return nil
}

// ReadDocument reads <appid>.json.
func (m *ManifestStore) ReadDocument(ctx context.Context, appID int) (*GameDocument, error) {
	var doc GameDocument
	if err := storage.ReadJSON(ctx, m.store, m.folder, DocumentName(appID), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes <appid>.json. A missing document is not an error.
func (m *ManifestStore) DeleteDocument(ctx context.Context, appID int) error {
	if err := m.store.DeleteFile(ctx, m.folder, DocumentName(appID)); err != nil {
		return fmt.Errorf("delete document %d: %w", appID, err)
	}
	return nil
}

// killSet tracks manifest appids not yet seen in the current owned-games
// list. Whatever survives the loop is no longer owned.
type killSet map[int]struct{}

func newKillSet(manifest Manifest) killSet {
	ks := make(killSet, len(manifest))
	for appID := range manifest {
		ks[appID] = struct{}{}
	}
	return ks
}

func (ks killSet) remove(appID int) {
	delete(ks, appID)
}

// survivors returns the remaining appids in ascending order.
func (ks killSet) survivors() []int {
	ids := make([]int, 0, len(ks))
	for appID := range ks {
		ids = append(ids, appID)
	}
	sort.Ints(ids)
	return ids
}
