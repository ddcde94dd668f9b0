// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/provider"
)

// LookupDiscogsParams is lookup_discogs' parameter object.
type LookupDiscogsParams struct {
	Artist string `json:"artist" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Album  string `json:"album,omitempty"`
}

// LookupDiscogs looks up a single track on Discogs, preferring a cached
// result over a live call (original_source/src/tools/mod.rs:
// "lookup_discogs": "result plus cache metadata; null result on no
// match"). Cache keys are normalized the same way the resolver's
// enrichment lookups are (spec.md §4.8.4), so a cache row written here is
// visible to resolve_track_data and vice versa.
func (s *Service) LookupDiscogs(ctx context.Context, p LookupDiscogsParams) (*CacheEnvelope, *ToolError) {
	artist, title := provider.Normalize(p.Artist), provider.Normalize(p.Title)

	if cached, err := s.Cache.GetEnrichment(provider.NameDiscogs, artist, title); err == nil {
		env := WrapCacheResult(decodeDiscogsPayload(cached), true, cached.CachedAt)
		return &env, nil
	} else if !errors.Is(err, cachestore.ErrNotFound) {
		return nil, FromError(err)
	}

	result, err := s.Discogs.Lookup(ctx, p.Artist, p.Title, p.Album)
	if err != nil {
		return nil, FromError(err)
	}

	rec := cachestore.EnrichmentRecord{
		Provider: provider.NameDiscogs, QueryArtist: artist, QueryTitle: title,
		CachedAt: time.Now().UTC(),
	}
	if result == nil {
		rec.MatchQuality = cachestore.MatchNone
	} else {
		rec.MatchQuality = cachestore.MatchExact
		if result.FuzzyMatch {
			rec.MatchQuality = cachestore.MatchFuzzy
		}
		payload, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			return nil, newToolError(CategoryDataIntegrity, marshalErr.Error())
		}
		rec.Payload = payload
	}
	if err := s.Cache.UpsertEnrichment(rec); err != nil {
		return nil, FromError(err)
	}

	env := WrapCacheResult(result, false, time.Time{})
	return &env, nil
}

func decodeDiscogsPayload(rec cachestore.EnrichmentRecord) interface{} {
	if rec.MatchQuality == cachestore.MatchNone || len(rec.Payload) == 0 {
		return nil
	}
	var result provider.DiscogsResult
	if err := json.Unmarshal(rec.Payload, &result); err != nil {
		return nil
	}
	return result
}

// LookupBeatportParams is lookup_beatport's parameter object.
type LookupBeatportParams struct {
	Artist string `json:"artist" validate:"required"`
	Title  string `json:"title" validate:"required"`
}

// LookupBeatport looks up a single track on Beatport, preferring a
// cached result over a live call.
func (s *Service) LookupBeatport(ctx context.Context, p LookupBeatportParams) (*CacheEnvelope, *ToolError) {
	artist, title := provider.Normalize(p.Artist), provider.Normalize(p.Title)

	if cached, err := s.Cache.GetEnrichment(provider.NameBeatport, artist, title); err == nil {
		env := WrapCacheResult(decodeBeatportPayload(cached), true, cached.CachedAt)
		return &env, nil
	} else if !errors.Is(err, cachestore.ErrNotFound) {
		return nil, FromError(err)
	}

	result, err := s.Beatport.Lookup(ctx, p.Artist, p.Title)
	if err != nil {
		return nil, FromError(err)
	}

	rec := cachestore.EnrichmentRecord{
		Provider: provider.NameBeatport, QueryArtist: artist, QueryTitle: title,
		CachedAt: time.Now().UTC(),
	}
	if result == nil {
		rec.MatchQuality = cachestore.MatchNone
	} else {
		rec.MatchQuality = cachestore.MatchExact
		payload, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			return nil, newToolError(CategoryDataIntegrity, marshalErr.Error())
		}
		rec.Payload = payload
	}
	if err := s.Cache.UpsertEnrichment(rec); err != nil {
		return nil, FromError(err)
	}

	env := WrapCacheResult(result, false, time.Time{})
	return &env, nil
}

func decodeBeatportPayload(rec cachestore.EnrichmentRecord) interface{} {
	if rec.MatchQuality == cachestore.MatchNone || len(rec.Payload) == 0 {
		return nil
	}
	var result provider.BeatportResult
	if err := json.Unmarshal(rec.Payload, &result); err != nil {
		return nil
	}
	return result
}

// EnrichTracksParams is enrich_tracks' parameter object: the track
// selection plus which providers to query (defaults to both).
type EnrichTracksParams struct {
	SelectorParams
	Providers []string `json:"providers,omitempty" validate:"omitempty,dive,oneof=discogs beatport"`
}

// EnrichTrackOutcome is one track's enrichment result across providers.
type EnrichTrackOutcome struct {
	TrackID  string         `json:"track_id"`
	Discogs  *CacheEnvelope `json:"discogs,omitempty"`
	Beatport *CacheEnvelope `json:"beatport,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// EnrichTracksResult is enrich_tracks' response.
type EnrichTracksResult struct {
	Tracks []EnrichTrackOutcome `json:"tracks"`
}

var defaultEnrichProviders = []string{provider.NameDiscogs, provider.NameBeatport}

// EnrichTracks batch enriches tracks via Discogs and/or Beatport,
// selecting tracks by identifiers, playlist, or search filters
// (original_source/src/tools/mod.rs: "enrich_tracks"). A per-track,
// per-provider failure is recorded on that track's outcome rather than
// aborting the whole batch.
func (s *Service) EnrichTracks(ctx context.Context, p EnrichTracksParams) (*EnrichTracksResult, *ToolError) {
	tracks, toolErr := resolveSelection(ctx, s.Catalog, s.selectionPolicy(true), p.SelectorParams)
	if toolErr != nil {
		return nil, toolErr
	}

	providers := p.Providers
	if len(providers) == 0 {
		providers = defaultEnrichProviders
	}

	outcomes := make([]EnrichTrackOutcome, 0, len(tracks))
	for _, t := range tracks {
		outcome := EnrichTrackOutcome{TrackID: t.ID}
		for _, prov := range providers {
			switch prov {
			case provider.NameDiscogs:
				env, lookupErr := s.LookupDiscogs(ctx, LookupDiscogsParams{Artist: t.Artist, Title: t.Title, Album: t.Album})
				if lookupErr != nil {
					outcome.Error = lookupErr.Message
					continue
				}
				outcome.Discogs = env
			case provider.NameBeatport:
				env, lookupErr := s.LookupBeatport(ctx, LookupBeatportParams{Artist: t.Artist, Title: t.Title})
				if lookupErr != nil {
					outcome.Error = lookupErr.Message
					continue
				}
				outcome.Beatport = env
			}
		}
		outcomes = append(outcomes, outcome)
	}

	return &EnrichTracksResult{Tracks: outcomes}, nil
}
