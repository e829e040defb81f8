// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carderne/hexy/internal/auth"
	"github.com/carderne/hexy/internal/middleware"
	"github.com/carderne/hexy/internal/web"
)

const (
	pageMaxAge   = 5 * time.Minute
	staticMaxAge = time.Hour
)

// Router wires handlers and middleware onto a chi mux.
type Router struct {
	handler       *Handler
	sessions      *auth.SessionMiddleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, sessions *auth.SessionMiddleware, chiMiddleware *ChiMiddleware) *Router {
	return &Router{handler: handler, sessions: sessions, chiMiddleware: chiMiddleware}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Health
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("health", RateLimitHealth))
		r.Get("/health", router.handler.Health)
		r.Get("/api/v1/health/live", router.handler.HealthLive)
		r.Get("/api/v1/health/ready", router.handler.HealthReady)
	})

	// OAuth
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("auth", RateLimitAuth))
		r.Use(middleware.NoStore)
		r.Get("/auth", router.handler.Auth)
		r.Get("/callback", router.handler.Callback)
		r.Get("/logout", router.handler.Logout)
	})

	// Pages; the index differs for signed-in athletes so it is never cached
	pagesLimit := router.chiMiddleware.RateLimit("pages")
	r.Group(func(r chi.Router) {
		r.Use(pagesLimit)
		r.Use(middleware.NoStore)
		r.Use(router.sessions.Authenticate)
		r.Get("/", router.handler.Index)
	})
	r.Group(func(r chi.Router) {
		r.Use(pagesLimit)
		r.Use(middleware.PublicCache(pageMaxAge))
		r.Get("/home", router.handler.Home)
		r.Get("/privacy", router.handler.Privacy)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicCache(staticMaxAge))
		r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))
	})

	// Athlete data
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("data"))
		r.Use(middleware.NoStore)
		r.Use(router.sessions.RequireAuth)
		r.Use(chimiddleware.Compress(5, "application/json"))
		r.Get("/data", router.handler.Data)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
