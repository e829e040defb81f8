// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package api

import (
	"errors"
	"net/http"

	"github.com/carderne/hexy/internal/logging"
	"github.com/carderne/hexy/internal/validation"
)

// Auth redirects to the Strava consent page with a freshly signed state.
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	state, err := h.state.Issue()
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	http.Redirect(w, r, h.strava.AuthorizeURL(state), http.StatusFound)
}

// Callback completes the OAuth flow: it checks the state, exchanges the
// code, stores the athlete's tokens and signs the athlete in.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := parseCallbackRequest(r)
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	if err := h.state.Verify(req.State); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Rejected OAuth callback")
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidState, "Invalid or expired sign-in attempt", nil)
		return
	}

	token, err := h.strava.ExchangeCode(ctx, req.Code)
	if err != nil {
		respondFailure(w, r, upstream("exchange code", err))
		return
	}
	if token.Athlete == nil || token.Athlete.ID == 0 {
		respondFailure(w, r, upstream("exchange code", errors.New("token response has no athlete")))
		return
	}

	athleteID := token.Athlete.ID
	ctx = logging.ContextWithAthleteID(ctx, athleteID)

	if _, err := h.users.Save(ctx, athleteID, token); err != nil {
		respondFailure(w, r.WithContext(ctx), err)
		return
	}
	if _, err := h.sessions.CreateSession(ctx, w, r, athleteID); err != nil {
		respondFailure(w, r.WithContext(ctx), err)
		return
	}

	logging.Ctx(ctx).Info().Msg("Athlete signed in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and returns to the landing page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DestroySession(r.Context(), w, r); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to delete session")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
