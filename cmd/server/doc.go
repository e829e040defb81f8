// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

/*
Package main is the entry point for the hexy server.

hexy signs athletes in with Strava, fetches their activities and serves a
map payload: every activity as GeoJSON, the H3 cells their tracks cross
and the centroid of their densest region.

# Application Architecture

The server runs under a Suture v4 process supervisor:

	RootSupervisor ("hexy")
	├── DataSupervisor ("data-layer")
	│   ├── session-cleanup
	│   └── store-gc
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Store: BadgerDB for users and sessions
 4. Credentials: refresh token encryption and OAuth state signing
 5. Strava client: rate limited and behind a circuit breaker
 6. HTTP Server: Chi router with middleware stack
 7. Supervisor Tree: Suture v4 process supervision

# Configuration

The required settings are:

	STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET, STRAVA_REDIRECT_URI
	ENCRYPTION_KEYS   comma-separated, newest first
	SESSION_SECRET    32+ characters

OS_KEY sets the Ordnance Survey key the map client uses for tiles.

Run with -generate-key to print a fresh encryption key.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the maintenance services stop and the store is closed.
*/
package main
