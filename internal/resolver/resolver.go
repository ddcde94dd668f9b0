// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
	"github.com/ryanv/reklawdbox-go/internal/dsp"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
	"github.com/ryanv/reklawdbox-go/internal/provider"
	"github.com/ryanv/reklawdbox-go/internal/taxonomy"
)

// ErrTrackNotFound is returned when the requested identifier has no
// catalog row.
var ErrTrackNotFound = errors.New("resolver: track not found")

// Resolver fuses the catalog with every cached side-channel into one
// unified per-track view. All its collaborators are read-only from its
// perspective; Resolve and its variants never write.
type Resolver struct {
	catalog *catalog.Reader
	cache   *cachestore.Store
	changes *changemgr.Store
	prober  *extractor.Prober
}

// New creates a Resolver. prober may be nil, in which case
// Completeness.ExtractorInstalled is always false.
func New(catalogReader *catalog.Reader, cache *cachestore.Store, changes *changemgr.Store, prober *extractor.Prober) *Resolver {
	return &Resolver{catalog: catalogReader, cache: cache, changes: changes, prober: prober}
}

// Resolve produces the unified record for one track identifier.
func (r *Resolver) Resolve(ctx context.Context, trackID string) (*Record, error) {
	track, ok, err := r.catalog.GetByID(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("resolver: get track %s: %w", trackID, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	return r.assemble(track), nil
}

// ResolveBatch processes identifiers sequentially, preserving request
// order; a per-item failure is captured in its BatchResult rather than
// aborting the batch.
func (r *Resolver) ResolveBatch(ctx context.Context, trackIDs []string) []BatchResult {
	out := make([]BatchResult, len(trackIDs))
	for i, id := range trackIDs {
		rec, err := r.Resolve(ctx, id)
		out[i] = BatchResult{TrackID: id, Record: rec, Err: err}
	}
	return out
}

func (r *Resolver) assemble(track catalog.Track) *Record {
	audio := r.resolveAudio(track)
	discogs := r.resolveEnrichment(provider.NameDiscogs, track.Artist, track.Title)
	beatport := r.resolveEnrichment(provider.NameBeatport, track.Artist, track.Title)

	var overlay *changemgr.Overlay
	if r.changes != nil {
		if o, ok := r.changes.Get(track.ID); ok {
			overlay = &o
		}
	}

	extractorInstalled := r.prober != nil && r.prober.Installed()

	return &Record{
		Track:    track,
		Audio:    audio,
		Discogs:  discogs,
		Beatport: beatport,
		Overlay:  overlay,
		Completeness: Completeness{
			Catalog:            true,
			DSP:                audio.DSP != nil,
			Extractor:          audio.Extractor != nil,
			ExtractorInstalled: extractorInstalled,
			ProviderA:          discogs != nil,
			ProviderB:          beatport != nil,
		},
		Taxonomy: r.resolveTaxonomy(track, discogs, beatport),
	}
}

func (r *Resolver) resolveAudio(track catalog.Track) AudioAnalysis {
	var audio AudioAnalysis

	if rec, err := r.cache.GetAnalysis(track.Path, cachestore.AnalyzerDSP); err == nil {
		var result dsp.Result
		if json.Unmarshal(rec.Payload, &result) == nil {
			audio.DSP = &result
		}
	}
	if rec, err := r.cache.GetAnalysis(track.Path, cachestore.AnalyzerExtractor); err == nil {
		var ing extractor.Ingredients
		if json.Unmarshal(rec.Payload, &ing) == nil {
			audio.Extractor = &ing
		}
	}

	if audio.DSP != nil {
		audio.TempoAgrees = math.Abs(audio.DSP.Tempo-track.Tempo) <= tempoAgreementTolerance
		audio.KeyAgrees = audio.DSP.KeyName != "" && strings.EqualFold(audio.DSP.KeyName, track.Key)
	}

	return audio
}

func (r *Resolver) resolveEnrichment(providerName, artist, title string) *EnrichmentBlock {
	rec, err := r.cache.GetEnrichment(providerName, provider.Normalize(artist), provider.Normalize(title))
	if err != nil {
		return nil
	}
	return &EnrichmentBlock{
		Payload:      rec.Payload,
		MatchQuality: rec.MatchQuality,
		CachedAt:     rec.CachedAt,
	}
}

func (r *Resolver) resolveTaxonomy(track catalog.Track, discogs, beatport *EnrichmentBlock) Taxonomy {
	var tax Taxonomy
	tax.CurrentGenreCanonical = taxonomy.Canonicalize(track.Genre)

	if discogs != nil {
		var result provider.DiscogsResult
		if json.Unmarshal(discogs.Payload, &result) == nil {
			for _, style := range result.Styles {
				tax.ProviderAStyles = append(tax.ProviderAStyles, mapGenre(style))
			}
		}
	}

	if beatport != nil {
		var result provider.BeatportResult
		if json.Unmarshal(beatport.Payload, &result) == nil && result.Genre != "" {
			mapping := mapGenre(result.Genre)
			tax.ProviderBGenre = &mapping
		}
	}

	return tax
}

// mapGenre classifies one provider-supplied genre/style string against
// the canonical taxonomy: exact match, alias match, or unknown.
func mapGenre(style string) GenreMapping {
	if exact := taxonomy.CanonicalCasing(style); exact != "" {
		return GenreMapping{Style: style, MapsTo: exact, MappingType: "exact"}
	}
	if alias := taxonomy.Normalize(style); alias != "" {
		return GenreMapping{Style: style, MapsTo: alias, MappingType: "alias"}
	}
	return GenreMapping{Style: style, MapsTo: "", MappingType: "unknown"}
}
