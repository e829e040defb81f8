// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carderne/hexy/internal/api"
	"github.com/carderne/hexy/internal/auth"
	"github.com/carderne/hexy/internal/config"
	"github.com/carderne/hexy/internal/logging"
	"github.com/carderne/hexy/internal/store"
	"github.com/carderne/hexy/internal/strava"
	"github.com/carderne/hexy/internal/supervisor"
	"github.com/carderne/hexy/internal/supervisor/services"
	"github.com/carderne/hexy/internal/web"
)

const sessionCleanupInterval = 15 * time.Minute

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	generateKey := flag.Bool("generate-key", false, "print a new encryption key and exit")
	flag.Parse()

	if *generateKey {
		key, err := auth.GenerateEncryptionKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(key)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Bool("in_memory", cfg.Database.InMemory).
		Msg("Starting hexy with supervisor tree")

	db, err := store.Open(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	encryptor, err := auth.NewTokenEncryptor(cfg.Security.EncryptionKeys)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token encryption")
	}
	logging.Info().Int("keys", encryptor.KeyCount()).Msg("Token encryption ready")

	users := store.NewBadgerUserStore(db, encryptor)
	sessionStore := auth.NewSessionStore(db)
	sessions := auth.NewSessionMiddleware(sessionStore, &auth.SessionMiddlewareConfig{
		CookieName:     auth.DefaultCookieName,
		SessionTTL:     cfg.Security.SessionTimeout,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   cfg.Security.CookieSecure,
	})

	state, err := auth.NewStateSigner(cfg.Security.SessionSecret, auth.DefaultStateTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize OAuth state signing")
	}

	client, err := strava.NewClient(&cfg.Strava)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create Strava client")
	}

	pages, err := web.NewPages(cfg.Map.OSKey)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load page templates")
	}

	handler, err := api.NewHandler(api.HandlerConfig{
		Strava:   strava.NewCircuitBreakerClient(client),
		Users:    users,
		Sessions: sessions,
		State:    state,
		Pages:    pages,
		Ready: func(context.Context) error {
			if db.IsClosed() {
				return errors.New("store is closed")
			}
			return nil
		},
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	router := api.NewRouter(handler, sessions, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewSessionCleanupService(sessionStore, sessionCleanupInterval))
	tree.AddDataService(services.NewStoreGCService(db, cfg.Database.GCInterval, cfg.Database.GCRatio))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Server listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Server stopped")
}
