// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package strava

import "time"

// ExpiryMargin is how long before its real expiry an access token is
// already treated as expired.
const ExpiryMargin = time.Hour

// TokenExpired reports whether a token expiring at the unix time expiresAt
// should be refreshed at now.
func TokenExpired(expiresAt int64, now time.Time) bool {
	return time.Unix(expiresAt, 0).Before(now.Add(ExpiryMargin))
}
