// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package validation validates inbound request structs with
// go-playground/validator v10.
//
// A single validator instance is shared by all handlers; it caches struct
// metadata after the first use and is safe for concurrent use.
//
//	type CallbackRequest struct {
//	    Code  string `validate:"required,max=256"`
//	    State string `validate:"required"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Failures are translated into short English messages ("Code is required")
// and collected in a RequestValidationError, which converts to the API
// error envelope as VALIDATION_ERROR.
package validation
