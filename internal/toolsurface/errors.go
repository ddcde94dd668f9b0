// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"errors"
	"io/fs"
	"time"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
	"github.com/ryanv/reklawdbox-go/internal/export"
	"github.com/ryanv/reklawdbox-go/internal/libaudit"
	"github.com/ryanv/reklawdbox-go/internal/provider"
	"github.com/ryanv/reklawdbox-go/internal/resolver"
	"github.com/ryanv/reklawdbox-go/internal/validation"
)

// Category is the error taxonomy of spec.md §7, independent of any single
// Go error type.
type Category string

const (
	CategoryInvalidInput      Category = "invalid_input"
	CategoryNotFound          Category = "not_found"
	CategoryExternalTransient Category = "external_transient"
	CategoryExternalPermanent Category = "external_permanent"
	CategoryAuthRequired      Category = "auth_required"
	CategoryFilesystem        Category = "filesystem"
	CategoryDataIntegrity     Category = "data_integrity"
)

// ToolError is the error envelope every tool method returns in place of a
// bare Go error (spec.md §6: "Errors carry a category and a human
// message; auth errors additionally carry auth_url, poll_interval_seconds,
// expires_at").
type ToolError struct {
	Category Category               `json:"category"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`

	AuthURL          string     `json:"auth_url,omitempty"`
	PollIntervalSecs int64      `json:"poll_interval_seconds,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

func (e *ToolError) Error() string {
	return e.Message
}

func newToolError(category Category, message string) *ToolError {
	return &ToolError{Category: category, Message: message}
}

// FromValidation converts a parameter-validation failure into the
// invalid-input envelope.
func FromValidation(verr *validation.RequestValidationError) *ToolError {
	message, details := verr.Summary()
	return &ToolError{
		Category: CategoryInvalidInput,
		Message:  message,
		Details:  details,
	}
}

// FromError classifies an arbitrary error returned by a collaborator
// package into the spec.md §7 taxonomy. It is the single place that
// understands every collaborator's error types, so the rest of
// toolsurface never matches on them directly.
func FromError(err error) *ToolError {
	if err == nil {
		return nil
	}

	var authErr *provider.AuthRequiredError
	if errors.As(err, &authErr) {
		toolErr := newToolError(CategoryAuthRequired, authErr.Error())
		toolErr.AuthURL = authErr.Remediation.AuthURL
		toolErr.PollIntervalSecs = authErr.Remediation.PollIntervalSecs
		if !authErr.Remediation.ExpiresAt.IsZero() {
			expires := authErr.Remediation.ExpiresAt
			toolErr.ExpiresAt = &expires
		}
		return toolErr
	}

	var transientErr *provider.TransientError
	if errors.As(err, &transientErr) {
		toolErr := newToolError(CategoryExternalTransient, transientErr.Error())
		toolErr.Details = map[string]interface{}{
			"op":          transientErr.Op,
			"status_code": transientErr.StatusCode,
		}
		if transientErr.RetryAfter != "" {
			toolErr.Details["retry_after"] = transientErr.RetryAfter
		}
		return toolErr
	}

	var permanentErr *provider.PermanentError
	if errors.As(err, &permanentErr) {
		toolErr := newToolError(CategoryExternalPermanent, permanentErr.Error())
		toolErr.Details = map[string]interface{}{
			"op":          permanentErr.Op,
			"status_code": permanentErr.StatusCode,
		}
		return toolErr
	}

	if errors.Is(err, cachestore.ErrNotFound) ||
		errors.Is(err, resolver.ErrTrackNotFound) {
		return newToolError(CategoryNotFound, err.Error())
	}

	if errors.Is(err, export.ErrMissingPlaylistTrack) ||
		errors.Is(err, libaudit.ErrScopeRequired) ||
		errors.Is(err, changemgr.ErrRatingOutOfRange) ||
		errors.Is(err, changemgr.ErrUnknownColor) {
		return newToolError(CategoryInvalidInput, err.Error())
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return newToolError(CategoryFilesystem, err.Error())
	}

	return newToolError(CategoryDataIntegrity, err.Error())
}
