// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resolver implements the Resolver (spec.md §4.11): given a track
// identifier, it fuses the catalog record with every cached side-channel
// (DSP analysis, extractor analysis, provider enrichment, staged edits)
// and the genre taxonomy into one unified, JSON-shaped view. It never
// triggers external I/O — a missing cache entry surfaces as an absent
// block and a false completeness flag, never as a fresh lookup.
package resolver

import (
	"time"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
	"github.com/ryanv/reklawdbox-go/internal/dsp"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
)

// AudioAnalysis is the fused in-process/out-of-process analyzer view for
// one track, plus the two catalog-agreement flags (spec.md §4.11 item 2).
type AudioAnalysis struct {
	DSP         *dsp.Result            `json:"dsp"`
	Extractor   *extractor.Ingredients `json:"extractor"`
	TempoAgrees bool                   `json:"tempo_agrees"`
	KeyAgrees   bool                   `json:"key_agrees"`
}

// tempoAgreementTolerance is the spec.md §4.11 threshold: DSP tempo
// within 2.0 BPM of the catalog tempo.
const tempoAgreementTolerance = 2.0

// EnrichmentBlock is one provider's cached lookup result, augmented with
// match quality and cache age (spec.md §4.11 item 3).
type EnrichmentBlock struct {
	Payload      []byte                  `json:"payload"`
	MatchQuality cachestore.MatchQuality `json:"match_quality"`
	CachedAt     time.Time               `json:"cached_at"`
}

// Completeness summarizes which data sources actually contributed to this
// record (spec.md §4.11 item 5). Catalog is always true: a record cannot
// exist without its catalog row.
type Completeness struct {
	Catalog            bool `json:"catalog"`
	DSP                bool `json:"dsp"`
	Extractor          bool `json:"extractor"`
	ExtractorInstalled bool `json:"extractor_installed"`
	ProviderA          bool `json:"provider_a"`
	ProviderB          bool `json:"provider_b"`
}

// GenreMapping is one style-to-canonical-genre mapping (spec.md §4.11
// item 6).
type GenreMapping struct {
	Style       string `json:"style"`
	MapsTo      string `json:"maps_to"`
	MappingType string `json:"mapping_type"` // exact, alias, unknown
}

// Taxonomy is the genre-taxonomy block (spec.md §4.11 item 6).
type Taxonomy struct {
	CurrentGenreCanonical string         `json:"current_genre_canonical,omitempty"`
	ProviderAStyles       []GenreMapping `json:"provider_a_styles,omitempty"`
	ProviderBGenre        *GenreMapping  `json:"provider_b_genre,omitempty"`
}

// Record is the resolver's unified per-track view.
type Record struct {
	Track        catalog.Track        `json:"track"`
	Audio        AudioAnalysis        `json:"audio"`
	Discogs      *EnrichmentBlock     `json:"discogs"`
	Beatport     *EnrichmentBlock     `json:"beatport"`
	Overlay      *changemgr.Overlay   `json:"overlay"`
	Completeness Completeness         `json:"completeness"`
	Taxonomy     Taxonomy             `json:"taxonomy"`
}

// BatchResult pairs one requested identifier with its resolution outcome,
// preserving request order even when individual lookups fail (spec.md
// §4.11: "a batch variant ... returns an array in request order").
type BatchResult struct {
	TrackID string
	Record  *Record
	Err     error
}
