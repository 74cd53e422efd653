// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

/*
Package sync backs up the owned-games library incrementally.

Key Components:

  - IdentityResolver: username to SteamID64 (one ResolveVanityURL call)
  - MetadataCache: per-run appid to name/description lookup, catalog index
    first and store details as the fallback
  - ManifestStore: meta.list.json plus one <appid>.json document per game
  - GamesSynchronizer: the reconciliation loop (skip, refetch, prune)

Manifest Format:

	{
	    "10": {
	        "appid": 10,
	        "rtime_last_played": 1700000000
	    }
	}

Game Document Format:

	{
	    "appid": 10,
	    "name": "Counter-Strike",
	    "short_description": "...",
	    "rtime_last_played": 1700000000,
	    "playtime": {"playtime_forever": 32, "playtime_windows_forever": 32},
	    "achievements": [ ... ]
	}

name and short_description are omitted when unknown; achievements only
when Steam reports the game has stats.

Usage Example:

	cache := sync.NewMetadataCache(api, cfg.Metadata.CatalogIndex)
	syncer := sync.NewGamesSynchronizer(api, sync.NewManifestStore(store, gamesFolder), cache, sync.GamesOptions{
	    IncludePlayedFreeGames: cfg.Steam.IncludePlayedFreeGames,
	    Prune:                  cfg.Backup.PruneStaleGames,
	})
	result, err := syncer.Sync(ctx, steamID)
*/
package sync
