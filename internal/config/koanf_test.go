// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setRequiredEnv sets the minimum environment for a valid configuration.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STEAM_USERNAME", "gabelogannewell")
	t.Setenv("STEAM_API_KEY", "0123456789ABCDEF0123456789ABCDEF")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Steam.APIBaseURL != "https://api.steampowered.com" {
		t.Errorf("Steam.APIBaseURL = %q", cfg.Steam.APIBaseURL)
	}
	if cfg.Steam.RequestTimeout != 30*time.Second {
		t.Errorf("Steam.RequestTimeout = %v, want 30s", cfg.Steam.RequestTimeout)
	}
	if cfg.Steam.MaxRetries != 0 {
		t.Errorf("Steam.MaxRetries = %d, want 0", cfg.Steam.MaxRetries)
	}
	if cfg.Storage.Backend != "filesystem" {
		t.Errorf("Storage.Backend = %q, want filesystem", cfg.Storage.Backend)
	}
	if !cfg.Backup.PruneStaleGames {
		t.Error("Backup.PruneStaleGames should be true by default")
	}
	if cfg.Backup.Playtime {
		t.Error("Backup.Playtime should be false by default")
	}
	if cfg.Backup.WishlistMaxPages != 200 {
		t.Errorf("Backup.WishlistMaxPages = %d, want 200", cfg.Backup.WishlistMaxPages)
	}
	if cfg.Backup.HistoryLimit != 30 {
		t.Errorf("Backup.HistoryLimit = %d, want 30", cfg.Backup.HistoryLimit)
	}
	if !cfg.Metadata.CatalogIndex {
		t.Error("Metadata.CatalogIndex should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"STEAM_API_KEY", "steam.api_key"},
		{"STEAM_ID", "steam.steam_id"},
		{"STORAGE_S3_BUCKET", "storage.s3.bucket"},
		{"STORAGE_FS_PATH", "storage.filesystem.path"},
		{"BACKUP_INTERVAL", "backup.schedule.interval"},
		{"BACKUP_PRUNE_STALE_GAMES", "backup.prune_stale_games"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("steam: {}"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := writeConfigFile(t, "steam: {}")
		t.Setenv(ConfigPathEnvVar, customPath)
		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

func TestLoadFileEnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STEAM_REQUEST_TIMEOUT", "45s")
	t.Setenv("BACKUP_PRUNE_STALE_GAMES", "false")
	t.Setenv("BACKUP_WISHLIST_MAX_PAGES", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Steam.Username != "gabelogannewell" {
		t.Errorf("Steam.Username = %q", cfg.Steam.Username)
	}
	if cfg.Steam.RequestTimeout != 45*time.Second {
		t.Errorf("Steam.RequestTimeout = %v, want 45s", cfg.Steam.RequestTimeout)
	}
	if cfg.Backup.PruneStaleGames {
		t.Error("Backup.PruneStaleGames should be false (env override)")
	}
	if cfg.Backup.WishlistMaxPages != 10 {
		t.Errorf("Backup.WishlistMaxPages = %d, want 10", cfg.Backup.WishlistMaxPages)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	// Defaults still apply for unset values
	if cfg.Storage.Filesystem.Path != "/data/steamvault" {
		t.Errorf("Storage.Filesystem.Path = %q, want default", cfg.Storage.Filesystem.Path)
	}
}

func TestLoadFileConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
steam:
  username: "gabelogannewell"
  api_key: "file_api_key"
storage:
  backend: s3
  s3:
    bucket: backups
    region: eu-west-1
    endpoint: "http://minio.local:9000"
    use_path_style: true
backup:
  playtime: true
  schedule:
    interval: 12h
    preferred_hour: -1
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Steam.APIKey != "file_api_key" {
		t.Errorf("Steam.APIKey = %q, want file_api_key", cfg.Steam.APIKey)
	}
	if cfg.Storage.Backend != "s3" || cfg.Storage.S3.Bucket != "backups" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if !cfg.Storage.S3.UsePathStyle {
		t.Error("Storage.S3.UsePathStyle should be true")
	}
	if !cfg.Backup.Playtime {
		t.Error("Backup.Playtime should be true")
	}
	if cfg.Backup.Schedule.Interval != 12*time.Hour {
		t.Errorf("Backup.Schedule.Interval = %v, want 12h", cfg.Backup.Schedule.Interval)
	}
	if cfg.Backup.Schedule.PreferredHour != -1 {
		t.Errorf("Backup.Schedule.PreferredHour = %d, want -1", cfg.Backup.Schedule.PreferredHour)
	}
}

func TestLoadFileEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
steam:
  username: "from_file"
  api_key: "file_api_key"
logging:
  level: warn
`)
	t.Setenv("STEAM_USERNAME", "from_env")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Steam.Username != "from_env" {
		t.Errorf("Steam.Username = %q, want from_env (env override)", cfg.Steam.Username)
	}
	if cfg.Steam.APIKey != "file_api_key" {
		t.Errorf("Steam.APIKey = %q, want file_api_key (from file)", cfg.Steam.APIKey)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env override)", cfg.Logging.Level)
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing api key",
			env:     map[string]string{"STEAM_USERNAME": "someone"},
			wantErr: "APIKey is required",
		},
		{
			name:    "missing identity",
			env:     map[string]string{"STEAM_API_KEY": "key"},
			wantErr: "Username is required when SteamID is not set",
		},
		{
			name:    "bad steam id",
			env:     map[string]string{"STEAM_API_KEY": "key", "STEAM_ID": "12345"},
			wantErr: "SteamID must be a 17-digit SteamID64",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"STEAM_USERNAME": "someone", "STEAM_API_KEY": "key", "STORAGE_BACKEND": "ftp"},
			wantErr: "Backend must be one of",
		},
		{
			name:    "s3 without bucket",
			env:     map[string]string{"STEAM_USERNAME": "someone", "STEAM_API_KEY": "key", "STORAGE_BACKEND": "s3"},
			wantErr: "STORAGE_S3_BUCKET is required",
		},
		{
			name: "s3 half credentials",
			env: map[string]string{
				"STEAM_USERNAME": "someone", "STEAM_API_KEY": "key", "STORAGE_BACKEND": "s3",
				"STORAGE_S3_BUCKET": "b", "STORAGE_S3_ACCESS_KEY_ID": "AKIA",
			},
			wantErr: "must be set together",
		},
		{
			name:    "preferred hour out of range",
			env:     map[string]string{"STEAM_USERNAME": "someone", "STEAM_API_KEY": "key", "BACKUP_PREFERRED_HOUR": "24"},
			wantErr: "PreferredHour must be at most 23",
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"STEAM_USERNAME": "someone", "STEAM_API_KEY": "key", "LOG_LEVEL": "loud"},
			wantErr: "LOG_LEVEL must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"STEAM_USERNAME", "STEAM_ID", "STEAM_API_KEY"} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadFile("")
			if err == nil {
				t.Fatal("LoadFile() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFile() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Steam.APIKey = "0123456789ABCDEF"
	cfg.Storage.S3.SecretAccessKey = "abc"

	redacted := cfg.Redacted()
	if redacted.Steam.APIKey != "****CDEF" {
		t.Errorf("APIKey = %q, want ****CDEF", redacted.Steam.APIKey)
	}
	if redacted.Storage.S3.SecretAccessKey != "****" {
		t.Errorf("SecretAccessKey = %q, want ****", redacted.Storage.S3.SecretAccessKey)
	}
	if cfg.Steam.APIKey != "0123456789ABCDEF" {
		t.Error("Redacted() must not modify the receiver")
	}
}
