// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package api

import "net/http"

// CallbackRequest is the query Strava appends to the redirect URI.
type CallbackRequest struct {
	Code  string `query:"code" validate:"required,max=256,printascii"`
	State string `query:"state" validate:"required,max=2048"`
	Scope string `query:"scope" validate:"omitempty,max=256"`
}

func parseCallbackRequest(r *http.Request) CallbackRequest {
	q := r.URL.Query()
	return CallbackRequest{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Scope: q.Get("scope"),
	}
}
