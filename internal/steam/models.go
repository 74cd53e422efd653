// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package steam

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// VanityURLResult is the payload of ISteamUser/ResolveVanityURL.
// Success is 1 on a match and 42 when nothing matched.
type VanityURLResult struct {
	Response struct {
		SteamID string `json:"steamid,omitempty"`
		Success int    `json:"success"`
		Message string `json:"message,omitempty"`
	} `json:"response"`
}

// PlayerSummaries is the payload of ISteamUser/GetPlayerSummaries. Players
// are kept verbatim because the profile snapshot stores them unchanged.
type PlayerSummaries struct {
	Response struct {
		Players []json.RawMessage `json:"players"`
	} `json:"response"`
}

// OwnedGames is the payload of IPlayerService/GetOwnedGames. Games is nil
// when the response has no games field (private profile or bad key).
type OwnedGames struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []OwnedGame `json:"games"`
	} `json:"response"`
}

// OwnedGame is one entry of the owned-games list. AppID and RTimeLastPlayed
// are lifted out; Fields keeps every field Steam sent, verbatim, so that
// playtime counters Steam adds later are backed up without code changes.
type OwnedGame struct {
	AppID           int
	RTimeLastPlayed int64
	Fields          map[string]json.RawMessage
}

// UnmarshalJSON decodes an owned-game object, requiring an integer appid.
func (g *OwnedGame) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	rawID, ok := fields["appid"]
	if !ok {
		return fmt.Errorf("owned game without appid")
	}
	var appID int
	if err := json.Unmarshal(rawID, &appID); err != nil {
		return fmt.Errorf("owned game appid: %w", err)
	}

	var lastPlayed int64
	if raw, ok := fields["rtime_last_played"]; ok {
		if err := json.Unmarshal(raw, &lastPlayed); err != nil {
			return fmt.Errorf("owned game %d rtime_last_played: %w", appID, err)
		}
	}

	g.AppID = appID
	g.RTimeLastPlayed = lastPlayed
	g.Fields = fields
	return nil
}

// MarshalJSON writes the game back out with all of its original fields.
func (g OwnedGame) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(g.Fields)+2)
	for k, v := range g.Fields {
		fields[k] = v
	}
	fields["appid"] = json.RawMessage(strconv.Itoa(g.AppID))
	fields["rtime_last_played"] = json.RawMessage(strconv.FormatInt(g.RTimeLastPlayed, 10))
	return json.Marshal(fields)
}

// PlayerStats is the payload of ISteamUserStats/GetPlayerAchievements.
// Achievements is kept verbatim and only meaningful when Success is true.
type PlayerStats struct {
	PlayerStats struct {
		SteamID      string          `json:"steamID,omitempty"`
		GameName     string          `json:"gameName,omitempty"`
		Achievements json.RawMessage `json:"achievements,omitempty"`
		Success      bool            `json:"success"`
		Error        string          `json:"error,omitempty"`
	} `json:"playerstats"`
}

// AppList is the payload of ISteamApps/GetAppList.
type AppList struct {
	AppList struct {
		Apps []AppListEntry `json:"apps"`
	} `json:"applist"`
}

// AppListEntry is one catalog entry.
type AppListEntry struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// AppDetails is the payload of store api/appdetails for a single app,
// already unwrapped from its appid key.
type AppDetails struct {
	Success bool            `json:"success"`
	Data    *AppDetailsData `json:"data,omitempty"`
}

// AppDetailsData holds the store fields Steamvault keeps.
type AppDetailsData struct {
	Type             string `json:"type"`
	Name             string `json:"name"`
	SteamAppID       int    `json:"steam_appid"`
	ShortDescription string `json:"short_description"`
}

// WishlistPage is one page of store wishlistdata, keyed by appid. An empty
// page (Steam sends [] or {}) ends pagination.
type WishlistPage map[string]json.RawMessage

// decodeWishlistPage accepts both the object form and the empty-array form.
func decodeWishlistPage(body []byte) (WishlistPage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			return nil, fmt.Errorf("unexpected non-empty wishlist array with %d items", len(items))
		}
		return WishlistPage{}, nil
	}

	page := WishlistPage{}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// ProfileRef addresses a community profile either by custom URL name
// (/id/<name>) or by SteamID64 (/profiles/<id>).
type ProfileRef struct {
	Vanity  string
	SteamID string
}

func (p ProfileRef) path() string {
	if p.Vanity != "" {
		return "/id/" + p.Vanity
	}
	return "/profiles/" + p.SteamID
}
