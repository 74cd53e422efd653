// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"context"
)

// ResolveVanityURL maps a custom profile URL name to a SteamID64. A
// response without a steamid is returned as-is; callers decide whether
// that is fatal.
func (c *Client) ResolveVanityURL(ctx context.Context, vanity string) (*VanityURLResult, error) {
	req := c.newWebAPIRequest("resolve_vanity_url", "/ISteamUser/ResolveVanityURL/v0001/").
		addParam("vanityurl", vanity)
	return executeAPIRequest[VanityURLResult](ctx, c, req)
}

// GetPlayerSummaries returns the public profile summary for one account.
func (c *Client) GetPlayerSummaries(ctx context.Context, steamID string) (*PlayerSummaries, error) {
	req := c.newWebAPIRequest("player_summaries", "/ISteamUser/GetPlayerSummaries/v0002/").
		addParam("steamids", steamID)
	return executeAPIRequest[PlayerSummaries](ctx, c, req)
}

// GetOwnedGames returns the owned-games list with playtime counters.
// App names are not requested; they come from the catalog instead.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string, includePlayedFree bool) (*OwnedGames, error) {
	req := c.newWebAPIRequest("owned_games", "/IPlayerService/GetOwnedGames/v0001/").
		addParam("steamid", steamID).
		addBoolParam("include_played_free_games", includePlayedFree).
		addParam("format", "json")
	return executeAPIRequest[OwnedGames](ctx, c, req)
}
