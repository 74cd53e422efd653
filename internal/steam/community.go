// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"context"
	"fmt"
	"net/http"
)

// GetCommunityGamesPage returns the HTML of the profile's "All games" page,
// which embeds per-game playtime as a script variable.
func (c *Client) GetCommunityGamesPage(ctx context.Context, profile ProfileRef) (string, error) {
	req := c.newCommunityRequest("community_games", profile.path()+"/games/").
		addParam("tab", "all").
		addParam("sort", "name")

	resp, err := c.fetch(ctx, req.endpoint, req.buildURL(c.apiKey))
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "", fmt.Errorf("steam %s: unexpected status %d: %s", req.endpoint, resp.status, bodySnippet(resp.body))
	}
	return string(resp.body), nil
}
