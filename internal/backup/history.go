// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package backup

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/steamvault/internal/storage"
)

// appendHistory prepends record to meta.runs.json and trims the history to
// backup.history_limit entries.
func (m *Manager) appendHistory(ctx context.Context, record *RunRecord) error {
	root, err := m.store.FindOrCreateFolder(ctx, storage.RootFolder, m.cfg.Storage.Root)
	if err != nil {
		return err
	}

	history, err := m.readHistory(ctx, root)
	if err != nil {
		return err
	}

	runs := make([]*RunRecord, 0, len(history.Runs)+1)
	runs = append(runs, record)
	for _, r := range history.Runs {
		if r.ID != record.ID {
			runs = append(runs, r)
		}
	}
	if limit := m.cfg.Backup.HistoryLimit; limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	history.Runs = runs

	return storage.WriteJSON(ctx, m.store, root, HistoryFileName, history)
}

// History returns up to limit recorded runs, newest first. A limit of zero
// or less returns every stored run.
func (m *Manager) History(ctx context.Context, limit int) ([]*RunRecord, error) {
	root, err := m.store.FindOrCreateFolder(ctx, storage.RootFolder, m.cfg.Storage.Root)
	if err != nil {
		return nil, err
	}
	history, err := m.readHistory(ctx, root)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(history.Runs) > limit {
		return history.Runs[:limit], nil
	}
	return history.Runs, nil
}

// readHistory loads meta.runs.json. A missing file is an empty history; an
// unreadable one is an error so it is not silently overwritten.
func (m *Manager) readHistory(ctx context.Context, root storage.Folder) (*RunHistory, error) {
	var history RunHistory
	err := storage.ReadJSON(ctx, m.store, root, HistoryFileName, &history)
	if errors.Is(err, storage.ErrNotFound) {
		return &RunHistory{Runs: []*RunRecord{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read run history: %w", err)
	}
	if history.Runs == nil {
		history.Runs = []*RunRecord{}
	}
	return &history, nil
}
