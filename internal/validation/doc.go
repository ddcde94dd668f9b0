// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validation provides struct validation for tool-surface parameter
// objects using go-playground/validator v10 (spec.md §6: "Parameter
// contracts"). It wraps the library with a thread-safe singleton validator
// and translates its field errors into the invalid-input error category
// internal/toolsurface returns to callers (spec.md §7).
//
// # Quick start
//
//	type ScoreTransitionParams struct {
//	    FromTrackID string `validate:"required"`
//	    ToTrackID   string `validate:"required"`
//	    Priority    string `validate:"omitempty,oneof=balanced harmonic energy genre"`
//	}
//
//	if verr := validation.ValidateStruct(&params); verr != nil {
//	    return nil, toolsurface.FromValidation(verr)
//	}
//
// # Error shape
//
// Summary reduces every failing field to the message/details pair
// internal/toolsurface.FromValidation folds into its invalid-input
// envelope:
//
//	{
//	    "category": "invalid_input",
//	    "message": "RatingMin must be greater than or equal to 1",
//	    "details": {"field": "RatingMin", "tag": "gte", "value": 0}
//	}
package validation
