// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/steamvault/internal/api"
	"github.com/tomtom215/steamvault/internal/backup"
	"github.com/tomtom215/steamvault/internal/logging"
	"github.com/tomtom215/steamvault/internal/supervisor"
	"github.com/tomtom215/steamvault/internal/supervisor/services"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one backup and exit",
		Long: `Run one backup and exit.

The exit status is 1 when the Steam identity cannot be resolved or any
enabled section fails. Sections that succeeded are kept either way.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if dryRun {
				cfg.Backup.DryRun = true
			}

			c, err := newComponents(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			record, err := c.manager.Run(cmd.Context(), backup.TriggerCLI)
			if record != nil && record.Games != nil {
				logging.Info().
					Int("owned", record.Games.Owned).
					Int("updated", record.Games.Updated).
					Int("skipped", record.Games.Skipped).
					Int("failed", record.Games.Failed).
					Int("pruned", record.Games.Pruned).
					Msg("Games summary")
			}
			if err != nil {
				logging.Error().Err(err).Msg("Backup failed")
				return errRunFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch everything but write to an in-memory store")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled backups and the status API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			c, err := newComponents(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
				ShutdownTimeout: cfg.Server.ShutdownTimeout + cfg.Steam.RequestTimeout,
			})
			if err != nil {
				return fmt.Errorf("create supervisor tree: %w", err)
			}

			server := &http.Server{
				Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
				Handler:      api.NewRouter(c.manager, &cfg.Server),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			tree.AddBackupService(services.NewBackupSchedulerService(c.manager))
			tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

			logging.Info().
				Str("addr", server.Addr).
				Bool("schedule", cfg.Backup.Schedule.Enabled).
				Dur("interval", cfg.Backup.Schedule.Interval).
				Msg("Starting steamvault daemon")

			err = tree.Serve(cmd.Context())
			if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
				logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
			}
			if err != nil && !errors.Is(err, cmd.Context().Err()) {
				return err
			}
			logging.Info().Msg("steamvault daemon stopped")
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "steamvault %s (%s)\n", version, commit)
		},
	}
}
