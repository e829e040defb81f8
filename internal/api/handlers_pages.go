// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package api

import (
	"bytes"
	"net/http"

	"github.com/carderne/hexy/internal/auth"
	"github.com/carderne/hexy/internal/web"
)

// Index serves the map for a signed-in athlete and the connect page for
// everyone else. It is the redirect target of the OAuth callback and logout.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	_, loggedIn := auth.AthleteIDFromContext(r.Context())
	h.renderPage(w, r, web.PageIndex, web.IndexData{
		LoggedIn: loggedIn,
		OSKey:    h.pages.OSKey(),
	})
}

// Home serves the about page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, web.PageHome, nil)
}

// Privacy serves the privacy notice.
func (h *Handler) Privacy(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, web.PagePrivacy, nil)
}

// renderPage buffers the page so a template error still yields a clean 500.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages.Render(&buf, page, data); err != nil {
		respondFailure(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
