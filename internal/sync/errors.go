// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedIdentity is returned when a username does not resolve to
	// a SteamID64. Every other step depends on the ID, so a run stops here.
	ErrUnresolvedIdentity = errors.New("sync: steam identity could not be resolved")

	// ErrMissingGameList is returned when the owned-games response has no
	// games field, which is what Steam sends for private profiles.
	ErrMissingGameList = errors.New("sync: owned games response has no game list")
)

// GameFailure records one game that could not be backed up.
type GameFailure struct {
	AppID int    `json:"appid"`
	Error string `json:"error"`
}

// panicError wraps a value recovered from a panicking game.
type panicError struct {
	value interface{}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
