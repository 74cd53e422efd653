// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

// Package config loads and validates Steamvault configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every optional setting
//  2. Config File: Optional YAML file (CONFIG_PATH, config.yaml, /etc/steamvault/config.yaml)
//  3. Environment Variables: Explicitly mapped variables override everything
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := steam.NewClient(&cfg.Steam, &cfg.Metadata)
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Steam    SteamConfig    `koanf:"steam"`
	Storage  StorageConfig  `koanf:"storage"`
	Backup   BackupConfig   `koanf:"backup"`
	Metadata MetadataConfig `koanf:"metadata"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SteamConfig holds the account and Steam endpoint settings.
//
// Environment Variables:
//   - STEAM_USERNAME: Custom profile URL name (steamcommunity.com/id/<name>)
//   - STEAM_ID: SteamID64; when set, vanity resolution is skipped
//   - STEAM_API_KEY: Web API key from steamcommunity.com/dev/apikey
//   - STEAM_REQUEST_TIMEOUT: Per-request timeout (default: 30s)
//   - STEAM_RATE_LIMIT: Requests per second per host (default: 2)
//   - STEAM_MAX_RETRIES: Retries on HTTP 429 (default: 0)
type SteamConfig struct {
	Username string `koanf:"username" validate:"required_without=SteamID,omitempty,vanityname"`
	SteamID  string `koanf:"steam_id" validate:"omitempty,steamid64"`
	APIKey   string `koanf:"api_key" validate:"required"`

	// Base URLs are overridable so that tests and mirrors can stand in for Steam.
	APIBaseURL       string `koanf:"api_base_url" validate:"required,url"`
	StoreBaseURL     string `koanf:"store_base_url" validate:"required,url"`
	CommunityBaseURL string `koanf:"community_base_url" validate:"required,url"`

	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	RateLimit      float64       `koanf:"rate_limit" validate:"gt=0"`
	RateBurst      int           `koanf:"rate_burst" validate:"min=1"`
	MaxRetries     int           `koanf:"max_retries" validate:"min=0,max=10"`
	UserAgent      string        `koanf:"user_agent"`

	// IncludePlayedFreeGames adds free-to-play titles with recorded playtime
	// to the owned-games list.
	IncludePlayedFreeGames bool `koanf:"include_played_free_games"`
}

// StorageConfig selects and configures the file store backups are written to.
//
// Root is the top-level folder created inside the backend; games are kept
// in Root/games.
type StorageConfig struct {
	Backend    string                  `koanf:"backend" validate:"oneof=filesystem s3 badger memory"`
	Root       string                  `koanf:"root" validate:"required,excludesall=/\\"`
	Filesystem FilesystemStorageConfig `koanf:"filesystem"`
	S3         S3StorageConfig         `koanf:"s3"`
	Badger     BadgerStorageConfig     `koanf:"badger"`
}

// FilesystemStorageConfig configures the local directory backend.
type FilesystemStorageConfig struct {
	Path string `koanf:"path"`
}

// S3StorageConfig configures the S3-compatible object store backend.
// Credentials fall back to the default AWS chain when AccessKeyID is empty.
type S3StorageConfig struct {
	Bucket          string `koanf:"bucket"`
	Region          string `koanf:"region"`
	Prefix          string `koanf:"prefix"`
	Endpoint        string `koanf:"endpoint"`
	UsePathStyle    bool   `koanf:"use_path_style"`
	AccessKeyID     string `koanf:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key"`
}

// BadgerStorageConfig configures the embedded key-value backend.
type BadgerStorageConfig struct {
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// BackupConfig controls which sections a run backs up and how games are reconciled.
type BackupConfig struct {
	Profile  bool `koanf:"profile"`
	Wishlist bool `koanf:"wishlist"`
	Games    bool `koanf:"games"`
	Playtime bool `koanf:"playtime"`

	// PruneStaleGames deletes per-game documents for games that are no
	// longer in the owned-games list.
	PruneStaleGames bool `koanf:"prune_stale_games"`

	WishlistMaxPages int `koanf:"wishlist_max_pages" validate:"min=1,max=1000"`
	HistoryLimit     int `koanf:"history_limit" validate:"min=1,max=1000"`

	// DryRun writes to an in-memory store instead of the configured backend.
	DryRun bool `koanf:"dry_run"`

	Schedule ScheduleConfig `koanf:"schedule"`
}

// ScheduleConfig configures the daemon's backup timer.
type ScheduleConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval" validate:"gte=1m"`

	// PreferredHour pins runs with an interval of 24h or more to a local
	// hour of day (0-23). -1 disables pinning.
	PreferredHour int  `koanf:"preferred_hour" validate:"min=-1,max=23"`
	RunOnStartup  bool `koanf:"run_on_startup"`
}

// MetadataConfig controls app name and description resolution.
type MetadataConfig struct {
	// CatalogIndex loads the full GetAppList index once per run before
	// falling back to per-app store lookups.
	CatalogIndex bool `koanf:"catalog_index"`

	// Language and CountryCode are passed to the store appdetails endpoint.
	Language    string `koanf:"language"`
	CountryCode string `koanf:"country_code"`
}

// ServerConfig holds the status API listener settings used by `steamvault serve`.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// TriggerRateLimit caps POST /api/v1/backup/run requests per client
	// IP per minute.
	TriggerRateLimit int `koanf:"trigger_rate_limit" validate:"min=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to every log entry.
	Caller bool `koanf:"caller"`
}

// Redacted returns a copy of the configuration with secrets masked,
// suitable for printing.
func (c *Config) Redacted() Config {
	out := *c
	out.Steam.APIKey = mask(out.Steam.APIKey)
	out.Storage.S3.SecretAccessKey = mask(out.Storage.S3.SecretAccessKey)
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
