// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/metrics"
	"github.com/tomtom215/steamvault/internal/storage"
	"github.com/tomtom215/steamvault/internal/sync"
)

func newRunID() string {
	return logging.GenerateRunID()
}

// section is one toggleable step of a run after identity.
type section struct {
	name    string
	enabled bool
	run     func(ctx context.Context, rc *runContext) (int, error)
}

// runContext carries what every section needs.
type runContext struct {
	record  *RunRecord
	root    storage.Folder
	steamID string
}

// execute performs the run. The caller holds runMu.
func (m *Manager) execute(ctx context.Context, id string, trigger Trigger) (*RunRecord, error) {
	ctx = logging.ContextWithRunID(ctx, id)
	logger := logging.Ctx(ctx)

	m.setCurrentRun(id)
	metrics.SetRunInProgress(true)
	defer metrics.SetRunInProgress(false)

	record := &RunRecord{
		ID:        id,
		Trigger:   trigger,
		Status:    StatusRunning,
		DryRun:    m.cfg.Backup.DryRun,
		StartedAt: m.now().UTC(),
		Sections:  make(map[string]*SectionResult),
	}
	logger.Info().Str("trigger", string(trigger)).Bool("dry_run", record.DryRun).Msg("Backup run started")

	var runErrs []error
	fail := func(name string, err error) {
		err = fmt.Errorf("%s: %w", name, err)
		runErrs = append(runErrs, err)
		record.Errors = append(record.Errors, err.Error())
		metrics.RecordSectionError(name)
	}

	root, err := m.store.FindOrCreateFolder(ctx, storage.RootFolder, m.cfg.Storage.Root)
	if err != nil {
		fail("storage", err)
		return m.complete(ctx, record, runErrs)
	}

	identityStart := m.now()
	steamID, err := sync.NewIdentityResolver(m.api, m.cfg.Steam.SteamID).Resolve(ctx, m.cfg.Steam.Username)
	record.Sections[SectionIdentity] = sectionResult(1, m.now().Sub(identityStart), err)
	if err != nil {
		fail(SectionIdentity, err)
		return m.complete(ctx, record, runErrs)
	}
	record.SteamID = steamID

	rc := &runContext{record: record, root: root, steamID: steamID}
	sections := []section{
		{name: SectionProfile, enabled: m.cfg.Backup.Profile, run: m.backupProfile},
		{name: SectionWishlist, enabled: m.cfg.Backup.Wishlist, run: m.backupWishlist},
		{name: SectionGames, enabled: m.cfg.Backup.Games, run: m.backupGames},
		{name: SectionPlaytime, enabled: m.cfg.Backup.Playtime, run: m.backupPlaytime},
	}

	for _, s := range sections {
		if !s.enabled {
			continue
		}
		if ctx.Err() != nil {
			fail(s.name, ctx.Err())
			continue
		}

		start := m.now()
		items, err := s.run(ctx, rc)
		record.Sections[s.name] = sectionResult(items, m.now().Sub(start), err)
		if err != nil {
			logger.Error().Err(err).Str("section", s.name).Msg("Backup section failed")
			fail(s.name, err)
			continue
		}
		logger.Info().Str("section", s.name).Int("items", items).Msg("Backup section complete")
	}

	return m.complete(ctx, record, runErrs)
}

// backupGames runs the incremental games sync with a fresh metadata cache.
func (m *Manager) backupGames(ctx context.Context, rc *runContext) (int, error) {
	folder, err := m.store.FindOrCreateFolder(ctx, rc.root, GamesFolderName)
	if err != nil {
		return 0, err
	}

	syncer := sync.NewGamesSynchronizer(
		m.api,
		sync.NewManifestStore(m.store, folder),
		sync.NewMetadataCache(m.api, m.cfg.Metadata.CatalogIndex),
		sync.GamesOptions{
			IncludePlayedFreeGames: m.cfg.Steam.IncludePlayedFreeGames,
			Prune:                  m.cfg.Backup.PruneStaleGames,
		},
	)

	result, err := syncer.Sync(ctx, rc.steamID)
	rc.record.Games = result
	if err != nil {
		return 0, err
	}
	backedUp := result.Updated + result.Skipped
	if result.Failed > 0 {
		return backedUp, fmt.Errorf("%d of %d games failed", result.Failed, result.Owned)
	}
	return backedUp, nil
}

// complete finalizes the record, stores it in the history and records metrics.
func (m *Manager) complete(ctx context.Context, record *RunRecord, runErrs []error) (*RunRecord, error) {
	logger := logging.Ctx(ctx)

	completed := m.now().UTC()
	record.CompletedAt = &completed
	record.Duration = completed.Sub(record.StartedAt)
	record.Status = runStatus(record, len(runErrs))

	// History is written even when the run was canceled.
	if err := m.appendHistory(context.WithoutCancel(ctx), record); err != nil {
		logger.Warn().Err(err).Msg("Failed to record run history")
	}

	metrics.RecordBackupRun(string(record.Status), record.Duration)
	logger.Info().
		Str("status", string(record.Status)).
		Dur("duration", record.Duration).
		Int("errors", len(runErrs)).
		Msg("Backup run finished")

	m.finishRun(record)
	return record, errors.Join(runErrs...)
}

func runStatus(record *RunRecord, errCount int) RunStatus {
	if errCount == 0 {
		return StatusSuccess
	}
	for name, s := range record.Sections {
		if name == SectionIdentity {
			continue
		}
		if s.Status == StatusSuccess || s.Items > 0 {
			return StatusPartial
		}
	}
	return StatusFailed
}

func sectionResult(items int, d time.Duration, err error) *SectionResult {
	result := &SectionResult{Status: StatusSuccess, Items: items, Duration: d}
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
	}
	return result
}
