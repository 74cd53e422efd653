// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

// Package main is the steamvault command.
//
// Steamvault backs up a Steam account (profile, wishlist, owned games with
// per-game achievements, and optionally the community playtime list) to a
// local directory, an S3 bucket or an embedded Badger database.
//
// # Commands
//
//	steamvault run      # one backup, exit status 1 if any section failed
//	steamvault serve    # scheduled backups plus the status API
//	steamvault config   # print the effective configuration, secrets masked
//	steamvault version
//
// # Configuration
//
// Settings are layered (highest priority wins):
//   - Environment variables (STEAM_API_KEY, STEAM_USERNAME, STORAGE_BACKEND, ...)
//   - Config file (--config, CONFIG_PATH, ./config.yaml, /etc/steamvault/config.yaml)
//   - Built-in defaults
//
// # Example Usage
//
//	export STEAM_API_KEY=XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX
//	export STEAM_USERNAME=gaben
//	export STORAGE_FS_PATH=$HOME/steam-backup
//	steamvault run
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the running backup. Games already written stay
// recorded in the manifest and are skipped by the next run.
package main

import (
	"os"
)

func main() {
	os.Exit(Execute())
}
