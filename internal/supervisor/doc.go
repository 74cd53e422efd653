// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

/*
Package supervisor provides process supervision for the steamvault daemon
using suture v4.

# Overview

`steamvault serve` runs two long-lived services under a small tree:

	RootSupervisor ("steamvault")
	├── BackupSupervisor ("backup-layer")
	│   └── BackupSchedulerService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the status API does not stop scheduled backups, and a scheduler
restart does not drop API connections.

Restarts use suture's backoff: after FailureThreshold failures (decaying
at FailureDecay per second) the supervisor waits FailureBackoff before
trying again. Supervisor events are logged through sutureslog into the
application's zerolog logger.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddBackupService(services.NewBackupSchedulerService(manager))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	return tree.Serve(ctx)

See the services subpackage for the service wrappers.
*/
package supervisor
