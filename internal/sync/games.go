// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

/*
games.go - Incremental Owned-Games Backup

GamesSynchronizer reconciles the owned-games list against the manifest of
the games folder:

  - unchanged games (same rtime_last_played) are skipped without any
    further requests
  - changed or new games get achievements and metadata fetched and their
    document rewritten
  - games no longer owned have their documents pruned

Write Ordering:
  - A game's document is written before its manifest entry is updated, and
    the manifest is saved after every game. After a crash the manifest can
    only be behind the documents, which costs one redundant fetch next run.

Failure Isolation:
  - Only the owned-games fetch is fatal. Everything after it runs per game
    and a failing (or panicking) game is logged, counted and skipped.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/metrics"
	"github.com/tomtom215/steamvault/internal/steam"
)

// GamesOptions configures a GamesSynchronizer.
type GamesOptions struct {
	IncludePlayedFreeGames bool
	Prune                  bool
}

// SyncResult summarizes one games sync.
type SyncResult struct {
	Owned    int           `json:"owned"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Pruned   int           `json:"pruned"`
	Failures []GameFailure `json:"failures,omitempty"`
	Duration time.Duration `json:"duration"`
}

func (r *SyncResult) addFailure(appID int, err error) {
	r.Failed++
	r.Failures = append(r.Failures, GameFailure{AppID: appID, Error: err.Error()})
	metrics.RecordGameResult("failed")
}

// GamesSynchronizer backs up owned games into one games folder.
//
// Thread Safety: Not safe for concurrent use. Callers serialize runs.
type GamesSynchronizer struct {
	api       steam.API
	manifests *ManifestStore
	metadata  *MetadataCache
	opts      GamesOptions
}

// NewGamesSynchronizer wires a synchronizer. metadata is scoped to the
// current run; pass a fresh cache for every run.
func NewGamesSynchronizer(api steam.API, manifests *ManifestStore, metadata *MetadataCache, opts GamesOptions) *GamesSynchronizer {
	return &GamesSynchronizer{
		api:       api,
		manifests: manifests,
		metadata:  metadata,
		opts:      opts,
	}
}

// Sync runs one reconciliation for steamID.
//
// The returned error is non-nil only when the owned-games list or the
// manifest could not be loaded, or when ctx was canceled mid-run. Per-game
// failures are reported in SyncResult.Failures.
func (s *GamesSynchronizer) Sync(ctx context.Context, steamID string) (*SyncResult, error) {
	start := time.Now()
	logger := logging.Ctx(ctx).With().Str("steam_id", steamID).Logger()

	owned, err := s.api.GetOwnedGames(ctx, steamID, s.opts.IncludePlayedFreeGames)
	if err != nil {
		return nil, fmt.Errorf("fetch owned games: %w", err)
	}
	if owned.Response.Games == nil {
		return nil, ErrMissingGameList
	}
	games := owned.Response.Games
	metrics.GamesOwned.Set(float64(len(games)))

	manifest, err := s.manifests.Load(ctx)
	if err != nil {
		return nil, err
	}
	pending := newKillSet(manifest)

	result := &SyncResult{Owned: len(games)}
	logger.Info().Int("owned", len(games)).Int("manifest", len(manifest)).Msg("Starting games sync")

	for i := range games {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("games sync interrupted: %w", err)
		}

		game := games[i]
		pending.remove(game.AppID)

		if entry, ok := manifest[game.AppID]; ok && entry.RTimeLastPlayed == game.RTimeLastPlayed {
			result.Skipped++
			metrics.RecordGameResult("skipped")
			continue
		}

		if err := s.syncGame(ctx, steamID, game, manifest); err != nil {
			logger.Error().Err(err).Int("appid", game.AppID).Msg("Game backup failed, continuing")
			result.addFailure(game.AppID, err)
			continue
		}
		result.Updated++
		metrics.RecordGameResult("updated")
	}

	if s.opts.Prune {
		s.prune(ctx, pending.survivors(), manifest, result)
	}

	result.Duration = time.Since(start)
	logger.Info().
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("pruned", result.Pruned).
		Dur("duration", result.Duration).
		Msg("Games sync complete")
	return result, nil
}

// syncGame fetches, merges and persists one game. A panic inside is
// recovered and returned as an error so the loop can continue.
func (s *GamesSynchronizer) syncGame(ctx context.Context, steamID string, game steam.OwnedGame, manifest Manifest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()

	stats, err := s.api.GetPlayerAchievements(ctx, steamID, game.AppID)
	if err != nil {
		return fmt.Errorf("fetch achievements: %w", err)
	}

	meta := s.metadata.Resolve(ctx, game.AppID)
	doc := BuildGameDocument(game, meta, stats)

	if err := s.manifests.WriteDocument(ctx, &doc); err != nil {
		return err
	}

	manifest[game.AppID] = ManifestEntry{AppID: game.AppID, RTimeLastPlayed: game.RTimeLastPlayed}
	return s.manifests.Save(ctx, manifest)
}

// prune deletes the documents of games that are no longer owned, saving the
// manifest after each one. A failed delete keeps the manifest entry so the
// next run tries again.
func (s *GamesSynchronizer) prune(ctx context.Context, appIDs []int, manifest Manifest, result *SyncResult) {
	logger := logging.Ctx(ctx)
	for _, appID := range appIDs {
		if ctx.Err() != nil {
			return
		}
		if err := s.manifests.DeleteDocument(ctx, appID); err != nil {
			logger.Error().Err(err).Int("appid", appID).Msg("Failed to prune game document")
			continue
		}
		delete(manifest, appID)
		if err := s.manifests.Save(ctx, manifest); err != nil {
			logger.Error().Err(err).Int("appid", appID).Msg("Failed to save manifest after prune")
		}
		result.Pruned++
		metrics.RecordGameResult("pruned")
		logger.Info().Int("appid", appID).Msg("Pruned game no longer owned")
	}
}

