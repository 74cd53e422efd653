// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package sync

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/steamvault/internal/steam"
)

// GameDocument is the per-game backup written to <appid>.json.
type GameDocument struct {
	AppID            int             `json:"appid"`
	Name             string          `json:"name,omitempty"`
	ShortDescription string          `json:"short_description,omitempty"`
	RTimeLastPlayed  int64           `json:"rtime_last_played"`
	Playtime         Playtime        `json:"playtime"`
	Achievements     json.RawMessage `json:"achievements,omitempty"`
}

// Playtime holds the owned-games counters for one game (playtime_forever,
// per-platform totals, ...) exactly as Steam sent them.
type Playtime map[string]json.RawMessage

// NewPlaytime copies every field of game except appid and
// rtime_last_played, which live at the top of the document.
func NewPlaytime(game steam.OwnedGame) Playtime {
	playtime := make(Playtime, len(game.Fields))
	for key, value := range game.Fields {
		switch key {
		case "appid", "rtime_last_played":
			continue
		}
		playtime[key] = value
	}
	return playtime
}

// BuildGameDocument merges the owned-games entry, resolved metadata and
// achievements. Achievements are included only when stats reports
// success; a successful response without a list is stored as [].
func BuildGameDocument(game steam.OwnedGame, meta AppMetadata, stats *steam.PlayerStats) GameDocument {
	doc := GameDocument{
		AppID:            game.AppID,
		Name:             meta.Name,
		ShortDescription: meta.ShortDescription,
		RTimeLastPlayed:  game.RTimeLastPlayed,
		Playtime:         NewPlaytime(game),
	}

	if stats != nil && stats.PlayerStats.Success {
		doc.Achievements = stats.PlayerStats.Achievements
		if len(doc.Achievements) == 0 || string(doc.Achievements) == "null" {
			doc.Achievements = json.RawMessage("[]")
		}
	}
	return doc
}
