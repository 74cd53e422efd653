// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/steamvault/internal/backup"
	"github.com/tomtom215/steamvault/internal/config"
	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/steam"
	"github.com/tomtom215/steamvault/internal/storage"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

// errRunFailed marks a backup that finished with section errors. The
// errors themselves have already been logged.
var errRunFailed = errors.New("backup finished with errors")

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "steamvault",
		Short: "Back up a Steam profile, wishlist and game library",
		Long: `steamvault - unattended backups of a Steam account.

Profile, wishlist and owned games (with achievements) are written as JSON
documents. Game documents are only refetched when Steam reports a new
last-played time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: $CONFIG_PATH, ./config.yaml, /etc/steamvault/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "override logging.format (json, console)")

	cmd.AddCommand(
		newRunCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// loadConfig loads the configuration and initializes logging from it.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	return cfg, nil
}

// components is everything a backup needs, built from the configuration.
type components struct {
	store   storage.Store
	manager *backup.Manager
}

func newComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	client := steam.NewClient(&cfg.Steam, &cfg.Metadata)
	api := steam.NewCircuitBreakerClient(client, steam.BreakerSettings{})

	store, err := storage.Open(ctx, &cfg.Storage, cfg.Backup.DryRun)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	return &components{
		store:   store,
		manager: backup.NewManager(cfg, api, store),
	}, nil
}

func (c *components) Close() {
	if err := c.store.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing backup store")
	}
}
