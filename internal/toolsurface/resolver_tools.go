// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"

	"github.com/ryanv/reklawdbox-go/internal/resolver"
)

// ResolveTrackDataParams is resolve_track_data's parameter object.
type ResolveTrackDataParams struct {
	TrackID string `json:"track_id" validate:"required"`
}

// ResolveTrackData fuses catalog, cached analysis, cached enrichment, and
// staged edits for one track into a unified view
// (original_source/src/tools/mod.rs: "resolve_track_data").
func (s *Service) ResolveTrackData(ctx context.Context, p ResolveTrackDataParams) (*resolver.Record, *ToolError) {
	rec, err := s.Resolver.Resolve(ctx, p.TrackID)
	if err != nil {
		return nil, FromError(err)
	}
	return rec, nil
}

// ResolveTracksDataParams is resolve_tracks_data's parameter object.
type ResolveTracksDataParams struct {
	TrackIDs []string `json:"track_ids" validate:"required,min=1"`
}

// ResolveTrackOutcome pairs a requested identifier with its resolution,
// preserving request order even when individual lookups fail.
type ResolveTrackOutcome struct {
	TrackID string          `json:"track_id"`
	Record  *resolver.Record `json:"record,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ResolveTracksDataResult is resolve_tracks_data's response.
type ResolveTracksDataResult struct {
	Results []ResolveTrackOutcome `json:"results"`
}

// ResolveTracksData resolves a batch of track identifiers in request
// order; a per-item failure is recorded on that item rather than
// aborting the batch.
func (s *Service) ResolveTracksData(ctx context.Context, p ResolveTracksDataParams) *ResolveTracksDataResult {
	batch := s.Resolver.ResolveBatch(ctx, p.TrackIDs)
	out := make([]ResolveTrackOutcome, len(batch))
	for i, br := range batch {
		outcome := ResolveTrackOutcome{TrackID: br.TrackID, Record: br.Record}
		if br.Err != nil {
			outcome.Error = FromError(br.Err).Message
		}
		out[i] = outcome
	}
	return &ResolveTracksDataResult{Results: out}
}

// CacheCoverageParams is cache_coverage's parameter object: the track
// selection to report coverage for.
type CacheCoverageParams struct {
	SelectorParams
}

// CacheCoverage reports cache-hit coverage for a filtered track set
// without assembling full resolver records for any of them
// (original_source/src/tools/mod.rs: "cache_coverage").
func (s *Service) CacheCoverage(ctx context.Context, p CacheCoverageParams) (*resolver.Coverage, *ToolError) {
	tracks, toolErr := resolveSelection(ctx, s.Catalog, s.selectionPolicy(false), p.SelectorParams)
	if toolErr != nil {
		return nil, toolErr
	}
	coverage := s.Resolver.Coverage(tracks)
	return &coverage, nil
}
