// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	assert.Same(t, v1, v2)
	assert.NotNil(t, v1)
}

// selectorParams mirrors the shape of a tool-surface selection block
// (spec.md §6: track_ids, max_tracks, filters.rating_min).
type selectorParams struct {
	TrackID   string `validate:"required"`
	MaxTracks int    `validate:"min=0,max=500"`
	RatingMin int    `validate:"omitempty,gte=1,lte=5"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input selectorParams
	}{
		{"typical selection", selectorParams{TrackID: "trk-1", MaxTracks: 20, RatingMin: 3}},
		{"zero max and no rating filter", selectorParams{TrackID: "trk-1", MaxTracks: 0, RatingMin: 0}},
		{"max rating", selectorParams{TrackID: "trk-1", MaxTracks: 500, RatingMin: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ValidateStruct(&tt.input))
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     selectorParams
		wantField string
		wantTag   string
	}{
		{"missing track id", selectorParams{MaxTracks: 10}, "TrackID", "required"},
		{"max_tracks too high", selectorParams{TrackID: "trk-1", MaxTracks: 501}, "MaxTracks", "max"},
		{"rating_min below range", selectorParams{TrackID: "trk-1", RatingMin: -1}, "RatingMin", "gte"},
		{"rating_min above range", selectorParams{TrackID: "trk-1", RatingMin: 6}, "RatingMin", "lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			require.NotNil(t, err)
			require.NotEmpty(t, err.Errors())

			var found bool
			for _, e := range err.Errors() {
				if e.Field == tt.wantField && e.Tag == tt.wantTag {
					found = true
				}
			}
			assert.True(t, found, "expected error on field %s with tag %s, got %v", tt.wantField, tt.wantTag, err.Errors())
		})
	}
}

func TestSummary_SingleError(t *testing.T) {
	input := selectorParams{MaxTracks: 10}
	err := ValidateStruct(&input)
	require.NotNil(t, err)

	message, details := err.Summary()
	assert.NotEmpty(t, message)
	assert.Equal(t, "TrackID", details["field"])
}

func TestSummary_MultipleErrors(t *testing.T) {
	input := selectorParams{MaxTracks: 501, RatingMin: 9}
	err := ValidateStruct(&input)
	require.NotNil(t, err)

	_, details := err.Summary()
	assert.Contains(t, details, "fields")
}

// priorityParams mirrors the scoring-priority enum (spec.md §4.9).
type priorityParams struct {
	Priority string `validate:"omitempty,oneof=balanced harmonic energy genre"`
}

func TestOneofValidation_Priority(t *testing.T) {
	valid := []string{"", "balanced", "harmonic", "energy", "genre"}
	for _, p := range valid {
		assert.Nil(t, ValidateStruct(&priorityParams{Priority: p}), "priority %q should be valid", p)
	}

	invalid := []string{"Balanced", "vibe", "harmonic-ish"}
	for _, p := range invalid {
		assert.NotNil(t, ValidateStruct(&priorityParams{Priority: p}), "priority %q should be invalid", p)
	}
}

// dateRangeParams mirrors the added_after/added_before filter fields.
type dateRangeParams struct {
	AddedAfter  string `validate:"omitempty,datetime=2006-01-02"`
	AddedBefore string `validate:"omitempty,datetime=2006-01-02"`
}

func TestDatetimeValidation_AddedRange(t *testing.T) {
	valid := dateRangeParams{AddedAfter: "2024-01-01", AddedBefore: "2024-12-31"}
	assert.Nil(t, ValidateStruct(&valid))

	invalid := dateRangeParams{AddedAfter: "2024/01/01"}
	assert.NotNil(t, ValidateStruct(&invalid))
}

// bpmRangeParams mirrors the bpm_min/bpm_max filter fields.
type bpmRangeParams struct {
	BpmMin float64 `validate:"omitempty,gte=0,lte=300"`
	BpmMax float64 `validate:"omitempty,gte=0,lte=300,gtefield=BpmMin"`
}

func TestRangeValidation_Bpm(t *testing.T) {
	assert.Nil(t, ValidateStruct(&bpmRangeParams{BpmMin: 120, BpmMax: 128}))

	err := ValidateStruct(&bpmRangeParams{BpmMin: 140, BpmMax: 120})
	require.NotNil(t, err)
	assert.Equal(t, "BpmMax", err.Errors()[0].Field)
}

type nestedOverlay struct {
	TrackID string  `validate:"required"`
	Overlay overlay `validate:"required"`
}

type overlay struct {
	Genre string `validate:"required"`
}

func TestNestedStructValidation(t *testing.T) {
	assert.Nil(t, ValidateStruct(&nestedOverlay{TrackID: "t1", Overlay: overlay{Genre: "Techno"}}))
	assert.NotNil(t, ValidateStruct(&nestedOverlay{TrackID: "t1", Overlay: overlay{}}))
}

func TestErrorMessages(t *testing.T) {
	err := ValidateStruct(&selectorParams{MaxTracks: 10})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "TrackID")
}
