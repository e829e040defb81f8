// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package strava

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnauthorized is matched by APIErrors for 401 responses.
var ErrUnauthorized = errors.New("strava: unauthorized")

// APIError is a non-2xx response from Strava.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strava %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrUnauthorized) true for rejected credentials.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// maxErrorBodySize limits how much of an error response is kept.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "\n... (truncated)"
	}
	return string(body)
}
