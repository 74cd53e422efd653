// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"context"
)

// GetPlayerAchievements returns the account's achievements for one game.
//
// Games without stats come back as HTTP 400 with
// {"playerstats":{"error":"Requested app has no stats","success":false}};
// that decodes normally and is reported through PlayerStats.Success, not
// as an error.
func (c *Client) GetPlayerAchievements(ctx context.Context, steamID string, appID int) (*PlayerStats, error) {
	req := c.newWebAPIRequest("player_achievements", "/ISteamUserStats/GetPlayerAchievements/v0001/").
		addParam("steamid", steamID).
		addIntParam("appid", appID).
		addParam("l", c.language)
	return executeAPIRequest[PlayerStats](ctx, c, req)
}
