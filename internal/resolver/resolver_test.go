// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
)

func TestMapGenreExactMatch(t *testing.T) {
	m := mapGenre("techno")
	assert.Equal(t, "exact", m.MappingType)
	assert.Equal(t, "Techno", m.MapsTo)
}

func TestMapGenreAliasMatch(t *testing.T) {
	m := mapGenre("dnb")
	assert.Equal(t, "alias", m.MappingType)
	assert.Equal(t, "Drum & Bass", m.MapsTo)
}

func TestMapGenreUnknown(t *testing.T) {
	m := mapGenre("space disco jazz fusion")
	assert.Equal(t, "unknown", m.MappingType)
	assert.Empty(t, m.MapsTo)
}

func TestResolveAudioTempoAndKeyAgreement(t *testing.T) {
	store := openTestStore(t)
	r := &Resolver{cache: store}

	path := "/music/track.flac"
	payload := []byte(`{"Tempo":127.5,"KeyName":"8A"}`)
	err := store.UpsertAnalysis(cachestore.AnalysisRecord{Path: path, Analyzer: cachestore.AnalyzerDSP, Payload: payload})
	assert.NoError(t, err)

	audio := r.resolveAudio(trackAt(path, 128.0, "8a"))
	assert.True(t, audio.TempoAgrees)
	assert.True(t, audio.KeyAgrees)
	assert.NotNil(t, audio.DSP)
	assert.Nil(t, audio.Extractor)
}

func TestResolveAudioDisagreesOutsideTolerance(t *testing.T) {
	store := openTestStore(t)
	r := &Resolver{cache: store}

	path := "/music/track.flac"
	payload := []byte(`{"Tempo":120.0,"KeyName":"5A"}`)
	err := store.UpsertAnalysis(cachestore.AnalysisRecord{Path: path, Analyzer: cachestore.AnalyzerDSP, Payload: payload})
	assert.NoError(t, err)

	audio := r.resolveAudio(trackAt(path, 128.0, "8a"))
	assert.False(t, audio.TempoAgrees)
	assert.False(t, audio.KeyAgrees)
}

func TestResolveAudioAbsentWhenNotCached(t *testing.T) {
	store := openTestStore(t)
	r := &Resolver{cache: store}

	audio := r.resolveAudio(trackAt("/music/missing.flac", 128.0, "8a"))
	assert.Nil(t, audio.DSP)
	assert.Nil(t, audio.Extractor)
	assert.False(t, audio.TempoAgrees)
	assert.False(t, audio.KeyAgrees)
}

func TestPercentRoundsToOneDecimal(t *testing.T) {
	assert.InDelta(t, 33.3, percent(1, 3), 0.01)
	assert.Equal(t, 0.0, percent(0, 0))
	assert.Equal(t, 100.0, percent(2, 2))
}
