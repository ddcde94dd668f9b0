// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldFailure is one struct field that failed validation, exported so
// internal/toolsurface can render it into the invalid_input envelope's
// details without re-parsing a message string.
type FieldFailure struct {
	Field   string      `json:"field"`
	Tag     string      `json:"tag"`
	Param   string      `json:"param,omitempty"`
	Value   interface{} `json:"value,omitempty"`
	Message string      `json:"message"`
}

// RequestValidationError collects every field failure from one
// ValidateStruct call; it never stops at the first failing field.
type RequestValidationError struct {
	Failures []FieldFailure
}

// Errors returns the field failures, oldest validator first.
func (ve *RequestValidationError) Errors() []FieldFailure {
	return ve.Failures
}

// Error implements the error interface, joining every field message.
func (ve *RequestValidationError) Error() string {
	if len(ve.Failures) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.Failures))
	for i, f := range ve.Failures {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// Summary reduces the field failures to one human message plus a details
// map suitable for a toolsurface.ToolError. A single failure collapses to
// its own message with the bare field/tag/value; multiple failures join
// into one "field: message; field: message" string and carry the full
// failure list under "fields".
func (ve *RequestValidationError) Summary() (message string, details map[string]interface{}) {
	switch len(ve.Failures) {
	case 0:
		return "validation failed", nil
	case 1:
		f := ve.Failures[0]
		return f.Message, map[string]interface{}{"field": f.Field, "tag": f.Tag, "value": f.Value}
	default:
		messages := make([]string, len(ve.Failures))
		for i, f := range ve.Failures {
			messages[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
		}
		return strings.Join(messages, "; "), map[string]interface{}{"fields": ve.Failures}
	}
}

// GetValidator returns the process-wide validator instance, built once on
// first use with WithRequiredStructEnabled for v11-compatible `required`
// semantics on struct-typed fields.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// oneof/gte/lte/datetime cover every tool-surface param shape
		// (priority, energy_phase, color, rating bounds, added_after/before)
		// without a custom validator function.
	})
	return validate
}

// ValidateStruct runs s through the shared validator, returning nil on
// success or *RequestValidationError carrying every failing field.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Failures: []FieldFailure{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	failures := make([]FieldFailure, len(fieldErrs))
	for i, fe := range fieldErrs {
		failures[i] = FieldFailure{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{Failures: failures}
}

// templatesNoParam maps a validation tag to a message template taking only
// the field name.
var templatesNoParam = map[string]string{
	"required":  "%s is required",
	"email":     "%s must be a valid email address",
	"datetime":  "%s must be a valid date/time in RFC3339 format",
	"base64url": "%s must be valid base64url encoded",
	"base64":    "%s must be valid base64 encoded",
}

// templatesWithParam maps a validation tag to a message template taking the
// field name and the tag's parameter (e.g. "100" in "max=100").
var templatesWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := templatesNoParam[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := templatesWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max, which need a different noun depending on
// whether the field is a string (characters) or a number.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind().String() == "string"

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
