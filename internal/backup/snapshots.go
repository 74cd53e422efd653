// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

/*
snapshots.go - Aggregate Snapshots

Profile, wishlist and playtime are saved whole on every run; only the games
section is incremental.

Wishlist Paging:
  - Pages p=0,1,2,... are requested until the first empty page ({} or [])
  - Entries are merged by appid; a later page overwrites an earlier one
  - backup.wishlist_max_pages bounds the loop in case Steam never returns
    an empty page

Playtime:
  - The community "All games" page embeds the library as
    `var rgGames = [...];`. The array is saved with the per-game
    availStatLinks dropped.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/goccy/go-json"

	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/steam"
	"github.com/tomtom215/steamvault/internal/storage"
)

var (
	// ErrNoPlayerSummary is returned when GetPlayerSummaries has no players.
	ErrNoPlayerSummary = errors.New("backup: player summary missing from response")

	// ErrInvalidPlaytimePage is returned when the community page has no
	// embedded games list (private profile, login wall, layout change).
	ErrInvalidPlaytimePage = errors.New("backup: failed to fetch valid Steam play times page")
)

var rgGamesPattern = regexp.MustCompile(`var rgGames = (.*);`)

// backupProfile saves the first player summary as profile.json.
func (m *Manager) backupProfile(ctx context.Context, rc *runContext) (int, error) {
	summaries, err := m.api.GetPlayerSummaries(ctx, rc.steamID)
	if err != nil {
		return 0, err
	}
	if len(summaries.Response.Players) == 0 {
		return 0, ErrNoPlayerSummary
	}

	if err := storage.WriteJSON(ctx, m.store, rc.root, ProfileFileName, summaries.Response.Players[0]); err != nil {
		return 0, err
	}
	return 1, nil
}

// backupWishlist saves the union of all wishlist pages as wishlist.json.
func (m *Manager) backupWishlist(ctx context.Context, rc *runContext) (int, error) {
	wishlist, err := collectWishlist(ctx, m.api, rc.steamID, m.cfg.Backup.WishlistMaxPages)
	if err != nil {
		return 0, err
	}
	if err := storage.WriteJSON(ctx, m.store, rc.root, WishlistFileName, wishlist); err != nil {
		return 0, err
	}
	return len(wishlist), nil
}

// collectWishlist pages through the wishlist until the first empty page.
func collectWishlist(ctx context.Context, api steam.API, steamID string, maxPages int) (steam.WishlistPage, error) {
	wishlist := steam.WishlistPage{}
	for page := 0; page < maxPages; page++ {
		items, err := api.GetWishlistPage(ctx, steamID, page)
		if err != nil {
			return nil, fmt.Errorf("wishlist page %d: %w", page, err)
		}
		if len(items) == 0 {
			return wishlist, nil
		}
		for appID, item := range items {
			wishlist[appID] = item
		}
	}

	logging.Ctx(ctx).Warn().Int("max_pages", maxPages).Int("items", len(wishlist)).
		Msg("Wishlist page limit reached before an empty page")
	return wishlist, nil
}

// backupPlaytime saves the playtime list scraped from the community games page.
func (m *Manager) backupPlaytime(ctx context.Context, rc *runContext) (int, error) {
	profile := steam.ProfileRef{Vanity: m.cfg.Steam.Username, SteamID: rc.steamID}
	page, err := m.api.GetCommunityGamesPage(ctx, profile)
	if err != nil {
		return 0, err
	}

	games, err := ParsePlaytimePage(page)
	if err != nil {
		return 0, err
	}
	if err := storage.WriteJSON(ctx, m.store, rc.root, PlaytimeFileName, games); err != nil {
		return 0, err
	}
	return len(games), nil
}

// ParsePlaytimePage extracts the rgGames array from a community games page
// and drops each entry's availStatLinks.
func ParsePlaytimePage(page string) ([]map[string]json.RawMessage, error) {
	match := rgGamesPattern.FindStringSubmatch(page)
	if match == nil {
		return nil, ErrInvalidPlaytimePage
	}

	var games []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match[1]), &games); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlaytimePage, err)
	}
	if games == nil {
		games = []map[string]json.RawMessage{}
	}
	for _, game := range games {
		delete(game, "availStatLinks")
	}
	return games, nil
}
