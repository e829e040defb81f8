// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package services adapts hexy's components to suture.Service.
//
// HTTPServerService turns http.Server's blocking ListenAndServe into a
// context-aware Serve with graceful shutdown. PeriodicService runs a task
// on a fixed interval; NewSessionCleanupService and NewStoreGCService build
// the two maintenance jobs hexy needs.
package services
