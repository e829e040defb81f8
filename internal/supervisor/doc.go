// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

/*
Package supervisor runs hexy's long-lived services under a suture v4 tree.

	RootSupervisor ("hexy")
	├── DataSupervisor ("data-layer")
	│   ├── session-cleanup
	│   └── store-gc
	└── APISupervisor ("api-layer")
	    └── http-server

A crashed service is restarted with backoff; a failure in the data layer
never stops the API from serving. Supervisor events are logged through
sutureslog into the zerolog logger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewSessionCleanupService(sessions, time.Hour))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
