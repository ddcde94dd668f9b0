// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"sort"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
	"github.com/ryanv/reklawdbox-go/internal/taxonomy"
)

// OverlayParams is one staged-change entry (spec.md §6: "a list of
// overlays, each with track_id plus optional {genre, comments, rating,
// color}").
type OverlayParams struct {
	TrackID  string  `json:"track_id" validate:"required"`
	Genre    *string `json:"genre,omitempty"`
	Comments *string `json:"comments,omitempty"`
	Rating   *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Color    *string `json:"color,omitempty"`
}

func (p OverlayParams) toOverlay() changemgr.Overlay {
	return changemgr.Overlay{
		Genre:    p.Genre,
		Comments: p.Comments,
		Rating:   p.Rating,
		Color:    p.Color,
	}
}

// UpdateTracksParams is update_tracks' parameter object.
type UpdateTracksParams struct {
	Changes []OverlayParams `json:"changes" validate:"required,min=1,dive"`
}

// UpdateTracksResult is update_tracks' response.
type UpdateTracksResult struct {
	Accepted int      `json:"accepted"`
	Pending  int      `json:"pending"`
	Warnings []string `json:"warnings,omitempty"`
}

// UpdateTracks stages changes to track metadata; changes are held in
// memory until write_xml runs (original_source/src/tools/mod.rs:
// "update_tracks").
func (s *Service) UpdateTracks(p UpdateTracksParams) (*UpdateTracksResult, *ToolError) {
	items := make([]changemgr.StagedOverlay, 0, len(p.Changes))
	var warnings []string

	for _, c := range p.Changes {
		overlay := c.toOverlay()
		fieldWarnings, err := overlay.Validate()
		if err != nil {
			return nil, FromError(err)
		}
		for _, w := range fieldWarnings {
			warnings = append(warnings, c.TrackID+": "+w.Message)
		}
		items = append(items, changemgr.StagedOverlay{TrackID: c.TrackID, Overlay: overlay})
	}

	accepted, pending := s.Changes.Stage(items)
	return &UpdateTracksResult{Accepted: accepted, Pending: pending, Warnings: warnings}, nil
}

// PreviewChangesParams is preview_changes' parameter object: the set of
// tracks to check staged overlays against. With neither TrackIDs nor
// PlaylistID set it previews every track that has a staged change; the
// search filters are not applied then.
type PreviewChangesParams struct {
	SelectorParams
}

// PreviewChangesResult is preview_changes' response.
type PreviewChangesResult struct {
	Entries []changemgr.PreviewEntry `json:"entries"`
}

// PreviewChanges shows what will differ from the current catalog state if
// the staged changes were exported now.
func (s *Service) PreviewChanges(ctx context.Context, p PreviewChangesParams) (*PreviewChangesResult, *ToolError) {
	var tracks []catalog.Track
	if len(p.TrackIDs) == 0 && p.PlaylistID == "" {
		ids := s.Changes.PendingIDs()
		if len(ids) == 0 {
			return &PreviewChangesResult{}, nil
		}
		var err error
		tracks, err = s.Catalog.GetByIDs(ctx, ids)
		if err != nil {
			return nil, FromError(err)
		}
	} else {
		resolved, toolErr := resolveSelection(ctx, s.Catalog, s.selectionPolicy(false), p.SelectorParams)
		if toolErr != nil {
			return nil, toolErr
		}
		tracks = resolved
	}

	return &PreviewChangesResult{Entries: s.Changes.Preview(tracks)}, nil
}

// ClearChangesParams is clear_changes' parameter object. Empty TrackIDs
// clears every staged change; empty Fields clears whole entries rather
// than individual fields.
type ClearChangesParams struct {
	TrackIDs []string `json:"track_ids,omitempty"`
	Fields   []string `json:"fields,omitempty" validate:"omitempty,dive,oneof=genre comments rating color"`
}

// ClearChangesResult is clear_changes' response.
type ClearChangesResult struct {
	Cleared   int `json:"cleared"`
	Remaining int `json:"remaining"`
}

// ClearChanges clears staged changes for specific tracks or all.
func (s *Service) ClearChanges(p ClearChangesParams) *ClearChangesResult {
	var ids []string
	if len(p.TrackIDs) > 0 {
		ids = p.TrackIDs
	}

	if len(p.Fields) > 0 {
		affected, remaining := s.Changes.ClearFields(ids, p.Fields)
		return &ClearChangesResult{Cleared: affected, Remaining: remaining}
	}

	cleared, remaining := s.Changes.ClearFull(ids)
	return &ClearChangesResult{Cleared: cleared, Remaining: remaining}
}

// NormalizationSuggestion is one genre's classification against the
// canonical taxonomy.
type NormalizationSuggestion struct {
	Genre      string `json:"genre"`
	Count      int    `json:"count"`
	MapsTo     string `json:"maps_to,omitempty"`
}

// SuggestNormalizationsResult buckets every distinct genre in the library
// into alias (known mapping), unknown (needs a manual decision), and
// canonical (already correct) sections (original_source/src/tools/mod.rs:
// "suggest_normalizations").
type SuggestNormalizationsResult struct {
	Alias     []NormalizationSuggestion `json:"alias"`
	Unknown   []NormalizationSuggestion `json:"unknown"`
	Canonical []NormalizationSuggestion `json:"canonical"`
}

// SuggestNormalizations analyzes every genre in the library and suggests
// normalizations against the canonical taxonomy.
func (s *Service) SuggestNormalizations(ctx context.Context) (*SuggestNormalizationsResult, *ToolError) {
	stats, err := s.Catalog.GenreStats(ctx)
	if err != nil {
		return nil, FromError(err)
	}

	result := &SuggestNormalizationsResult{}
	for _, g := range stats {
		if g.Genre == "" {
			continue
		}
		switch {
		case taxonomy.CanonicalCasing(g.Genre) != "":
			result.Canonical = append(result.Canonical, NormalizationSuggestion{Genre: g.Genre, Count: g.Count})
		case taxonomy.Normalize(g.Genre) != "":
			result.Alias = append(result.Alias, NormalizationSuggestion{
				Genre: g.Genre, Count: g.Count, MapsTo: taxonomy.Normalize(g.Genre),
			})
		default:
			result.Unknown = append(result.Unknown, NormalizationSuggestion{Genre: g.Genre, Count: g.Count})
		}
	}

	sortSuggestions(result.Alias)
	sortSuggestions(result.Unknown)
	sortSuggestions(result.Canonical)
	return result, nil
}

func sortSuggestions(entries []NormalizationSuggestion) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Genre < entries[j].Genre })
}
