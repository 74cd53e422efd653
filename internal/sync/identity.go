// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package sync

import (
	"context"
	"fmt"

	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/steam"
)

// IdentityResolver maps a custom profile URL name to a SteamID64.
type IdentityResolver struct {
	api      steam.API
	steamID  string
	resolved map[string]string
}

// NewIdentityResolver returns a resolver. When configuredSteamID is set it
// is returned for every username and no request is made.
func NewIdentityResolver(api steam.API, configuredSteamID string) *IdentityResolver {
	return &IdentityResolver{
		api:      api,
		steamID:  configuredSteamID,
		resolved: make(map[string]string),
	}
}

// Resolve returns the SteamID64 for username with one ResolveVanityURL
// call. A response without a steamid is ErrUnresolvedIdentity.
func (r *IdentityResolver) Resolve(ctx context.Context, username string) (string, error) {
	if r.steamID != "" {
		return r.steamID, nil
	}
	if id, ok := r.resolved[username]; ok {
		return id, nil
	}
	if username == "" {
		return "", fmt.Errorf("%w: no username or steam id configured", ErrUnresolvedIdentity)
	}

	result, err := r.api.ResolveVanityURL(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnresolvedIdentity, err)
	}
	if result.Response.SteamID == "" {
		msg := result.Response.Message
		if msg == "" {
			msg = fmt.Sprintf("success code %d", result.Response.Success)
		}
		return "", fmt.Errorf("%w: %q: %s", ErrUnresolvedIdentity, username, msg)
	}

	logging.Ctx(ctx).Debug().
		Str("username", username).
		Str("steam_id", result.Response.SteamID).
		Msg("Resolved Steam identity")

	r.resolved[username] = result.Response.SteamID
	return result.Response.SteamID, nil
}
