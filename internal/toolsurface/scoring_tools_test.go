// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
	"github.com/ryanv/reklawdbox-go/internal/dsp"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
	"github.com/ryanv/reklawdbox-go/internal/resolver"
	"github.com/ryanv/reklawdbox-go/internal/scoring"
	"github.com/ryanv/reklawdbox-go/internal/sequencing"
)

func TestBPMTargetAlignmentExactMatchIsOne(t *testing.T) {
	assert.Equal(t, 1.0, bpmTargetAlignment(128, 128))
}

func TestBPMTargetAlignmentDecaysLinearly(t *testing.T) {
	assert.InDelta(t, 0.5, bpmTargetAlignment(128, 138), 1e-9)
	assert.InDelta(t, 0.5, bpmTargetAlignment(138, 128), 1e-9)
}

func TestBPMTargetAlignmentFloorsAtZero(t *testing.T) {
	assert.Equal(t, 0.0, bpmTargetAlignment(80, 140))
}

func TestProfileFromRecordUsesCatalogWhenNoOverlayOrDSP(t *testing.T) {
	rec := &resolver.Record{
		Track: catalog.Track{ID: "t1", Genre: "Techno", Tempo: 130, Key: "8A"},
	}
	profile := profileFromRecord(rec)
	assert.Equal(t, "t1", profile.TrackID)
	assert.Equal(t, 130.0, profile.Tempo)
	assert.True(t, profile.HasKey)
	assert.NotEmpty(t, profile.Genre)
}

func TestProfileFromRecordOverlayGenreWinsOverCatalog(t *testing.T) {
	overlayGenre := "House"
	rec := &resolver.Record{
		Track:   catalog.Track{ID: "t1", Genre: "Techno"},
		Overlay: &changemgr.Overlay{Genre: &overlayGenre},
	}
	profile := profileFromRecord(rec)
	assert.NotEqual(t, "Techno", profile.Genre)
}

func TestProfileFromRecordDSPTempoAndKeyOverrideCatalog(t *testing.T) {
	rec := &resolver.Record{
		Track: catalog.Track{ID: "t1", Tempo: 120, Key: "invalid-key"},
		Audio: resolver.AudioAnalysis{
			DSP: &dsp.Result{Tempo: 126, KeyCamelot: "8A"},
		},
	}
	profile := profileFromRecord(rec)
	assert.Equal(t, 126.0, profile.Tempo)
	assert.True(t, profile.HasKey)
}

func TestProfileFromRecordCarriesExtractorDerivedAxes(t *testing.T) {
	rec := &resolver.Record{
		Track: catalog.Track{ID: "t1", Tempo: 128},
		Audio: resolver.AudioAnalysis{
			Extractor: &extractor.Ingredients{
				SpectralCentroid: 0.5,
				RhythmRegularity: 0.7,
				LoudnessRange:    6,
			},
		},
	}
	profile := profileFromRecord(rec)
	assert.True(t, profile.HasCentroid)
	assert.Equal(t, 0.5, profile.Centroid)
	assert.True(t, profile.HasRegularity)
	assert.Equal(t, 0.7, profile.Regularity)
	assert.True(t, profile.HasLoudnessRange)
	assert.Equal(t, 6.0, profile.LoudnessRange)
}

func TestExtractorIngredientsNilIsZeroValue(t *testing.T) {
	ing := extractorIngredients(nil)
	assert.Equal(t, sequencing.ExtractorIngredients{}, ing)
}

func TestExtractorIngredientsCopiesFieldsAndSetsFlags(t *testing.T) {
	ing := extractorIngredients(&extractor.Ingredients{
		Danceability:       0.8,
		IntegratedLoudness: -9,
		OnsetRate:          2.5,
	})
	assert.True(t, ing.HasDanceability)
	assert.Equal(t, 0.8, ing.Danceability)
	assert.True(t, ing.HasLoudness)
	assert.Equal(t, -9.0, ing.IntegratedLoudness)
	assert.True(t, ing.HasOnsetRate)
	assert.Equal(t, 2.5, ing.OnsetRate)
}

func TestPoolEntryFromRecordCarriesTrackAndProfile(t *testing.T) {
	rec := &resolver.Record{Track: catalog.Track{ID: "t9", Tempo: 140}}
	entry := poolEntryFromRecord(rec)
	assert.Equal(t, "t9", entry.Track.ID)
	assert.Equal(t, "t9", entry.Profile.TrackID)
}

func TestPickStartPrefersForcedID(t *testing.T) {
	pool := []sequencing.PoolEntry{
		{Track: catalog.Track{ID: "a"}},
		{Track: catalog.Track{ID: "b"}},
	}
	start, ok := pickStart(pool, "b", []scoring.Phase{scoring.PhaseWarmup})
	require.True(t, ok)
	assert.Equal(t, "b", start.Track.ID)
}

func TestPickStartFallsBackToSelectionWhenForcedIDMissing(t *testing.T) {
	pool := []sequencing.PoolEntry{
		{Track: catalog.Track{ID: "a"}, Profile: scoring.Profile{TrackID: "a"}},
	}
	start, ok := pickStart(pool, "does-not-exist", nil)
	require.True(t, ok)
	assert.Equal(t, "a", start.Track.ID)
}

func TestPickStartFailsOnEmptyPool(t *testing.T) {
	_, ok := pickStart(nil, "", nil)
	assert.False(t, ok)
}

func TestRemovePoolEntryDropsOnlyMatchingID(t *testing.T) {
	pool := []sequencing.PoolEntry{
		{Track: catalog.Track{ID: "a"}},
		{Track: catalog.Track{ID: "b"}},
		{Track: catalog.Track{ID: "c"}},
	}
	out := removePoolEntry(pool, "b")
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Track.ID)
	assert.Equal(t, "c", out[1].Track.ID)
}

func TestTrackIDsOfPreservesOrder(t *testing.T) {
	ids := trackIDsOf([]catalog.Track{{ID: "x"}, {ID: "y"}})
	assert.Equal(t, []string{"x", "y"}, ids)
}
