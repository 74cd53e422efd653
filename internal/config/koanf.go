// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/steamvault/config.yaml",
	"/etc/steamvault/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Steam: SteamConfig{
			APIBaseURL:             "https://api.steampowered.com",
			StoreBaseURL:           "https://store.steampowered.com",
			CommunityBaseURL:       "https://steamcommunity.com",
			RequestTimeout:         30 * time.Second,
			RateLimit:              2,
			RateBurst:              5,
			MaxRetries:             0,
			UserAgent:              "steamvault",
			IncludePlayedFreeGames: true,
		},
		Storage: StorageConfig{
			Backend: "filesystem",
			Root:    "steam",
			Filesystem: FilesystemStorageConfig{
				Path: "/data/steamvault",
			},
			S3: S3StorageConfig{
				Region: "us-east-1",
			},
			Badger: BadgerStorageConfig{
				Path:       "/data/steamvault.badger",
				SyncWrites: true,
			},
		},
		Backup: BackupConfig{
			Profile:          true,
			Wishlist:         true,
			Games:            true,
			Playtime:         false,
			PruneStaleGames:  true,
			WishlistMaxPages: 200,
			HistoryLimit:     30,
			DryRun:           false,
			Schedule: ScheduleConfig{
				Enabled:       true,
				Interval:      24 * time.Hour,
				PreferredHour: 3,
				RunOnStartup:  false,
			},
		},
		Metadata: MetadataConfig{
			CatalogIndex: true,
			Language:     "english",
			CountryCode:  "",
		},
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             8377,
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     30 * time.Second,
			ShutdownTimeout:  15 * time.Second,
			TriggerRateLimit: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration with layered sources:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// STEAM_API_KEY -> steam.api_key, STORAGE_S3_BUCKET -> storage.s3.bucket
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so that unrelated environment does not leak
// into the configuration.
var envMappings = map[string]string{
	// Steam
	"steam_username":                  "steam.username",
	"steam_id":                        "steam.steam_id",
	"steam_api_key":                   "steam.api_key",
	"steam_api_base_url":              "steam.api_base_url",
	"steam_store_base_url":            "steam.store_base_url",
	"steam_community_base_url":        "steam.community_base_url",
	"steam_request_timeout":           "steam.request_timeout",
	"steam_rate_limit":                "steam.rate_limit",
	"steam_rate_burst":                "steam.rate_burst",
	"steam_max_retries":               "steam.max_retries",
	"steam_user_agent":                "steam.user_agent",
	"steam_include_played_free_games": "steam.include_played_free_games",

	// Storage
	"storage_backend":              "storage.backend",
	"storage_root":                 "storage.root",
	"storage_fs_path":              "storage.filesystem.path",
	"storage_s3_bucket":            "storage.s3.bucket",
	"storage_s3_region":            "storage.s3.region",
	"storage_s3_prefix":            "storage.s3.prefix",
	"storage_s3_endpoint":          "storage.s3.endpoint",
	"storage_s3_use_path_style":    "storage.s3.use_path_style",
	"storage_s3_access_key_id":     "storage.s3.access_key_id",
	"storage_s3_secret_access_key": "storage.s3.secret_access_key",
	"storage_badger_path":          "storage.badger.path",
	"storage_badger_sync_writes":   "storage.badger.sync_writes",

	// Backup
	"backup_profile":            "backup.profile",
	"backup_wishlist":           "backup.wishlist",
	"backup_games":              "backup.games",
	"backup_playtime":           "backup.playtime",
	"backup_prune_stale_games":  "backup.prune_stale_games",
	"backup_wishlist_max_pages": "backup.wishlist_max_pages",
	"backup_history_limit":      "backup.history_limit",
	"backup_dry_run":            "backup.dry_run",
	"backup_schedule_enabled":   "backup.schedule.enabled",
	"backup_interval":           "backup.schedule.interval",
	"backup_preferred_hour":     "backup.schedule.preferred_hour",
	"backup_run_on_startup":     "backup.schedule.run_on_startup",

	// Metadata
	"metadata_catalog_index": "metadata.catalog_index",
	"metadata_language":      "metadata.language",
	"metadata_country_code":  "metadata.country_code",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_trigger_rate":     "server.trigger_rate_limit",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// It returns "" for unmapped variables, which koanf skips.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
