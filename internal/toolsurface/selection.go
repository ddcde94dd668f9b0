// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"fmt"
	"time"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/selector"
)

const isoDateLayout = "2006-01-02"

// FilterParams mirrors the search-filter block of spec.md §6's selection
// parameter contract.
type FilterParams struct {
	Query       string   `json:"query,omitempty"`
	Artist      string   `json:"artist,omitempty"`
	Genre       string   `json:"genre,omitempty"`
	RatingMin   int      `json:"rating_min,omitempty" validate:"omitempty,gte=1,lte=5"`
	BpmMin      float64  `json:"bpm_min,omitempty" validate:"omitempty,gte=0"`
	BpmMax      float64  `json:"bpm_max,omitempty" validate:"omitempty,gte=0"`
	Key         string   `json:"key,omitempty"`
	HasGenre    *bool    `json:"has_genre,omitempty"`
	Label       string   `json:"label,omitempty"`
	Path        string   `json:"path,omitempty"`
	AddedAfter  string   `json:"added_after,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AddedBefore string   `json:"added_before,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SelectorParams is the shared track-set selector (spec.md §4.12, §6):
// explicit identifiers beat a playlist, which beats search filters.
type SelectorParams struct {
	TrackIDs   []string     `json:"track_ids,omitempty"`
	PlaylistID string       `json:"playlist_id,omitempty"`
	MaxTracks  int          `json:"max_tracks,omitempty" validate:"omitempty,min=0"`
	Filters    FilterParams `json:"filters,omitempty"`
}

func (f FilterParams) toSearchFilter() (catalog.SearchFilter, error) {
	sf := catalog.SearchFilter{
		FreeText:     f.Query,
		Artist:       f.Artist,
		Genre:        f.Genre,
		MinRating:    f.RatingMin,
		MinTempo:     f.BpmMin,
		MaxTempo:     f.BpmMax,
		Key:          f.Key,
		HasGenre:     f.HasGenre,
		Label:        f.Label,
		PathContains: f.Path,
	}
	if f.AddedAfter != "" {
		t, err := time.Parse(isoDateLayout, f.AddedAfter)
		if err != nil {
			return catalog.SearchFilter{}, fmt.Errorf("added_after: %w", err)
		}
		sf.AddedAfter = t
	}
	if f.AddedBefore != "" {
		t, err := time.Parse(isoDateLayout, f.AddedBefore)
		if err != nil {
			return catalog.SearchFilter{}, fmt.Errorf("added_before: %w", err)
		}
		sf.AddedBefore = t
	}
	return sf, nil
}

// resolveSelection converts SelectorParams into materialized tracks via
// internal/selector, under policy.
func resolveSelection(ctx context.Context, reader *catalog.Reader, policy selector.Policy, p SelectorParams) ([]catalog.Track, *ToolError) {
	sf, err := p.Filters.toSearchFilter()
	if err != nil {
		return nil, newToolError(CategoryInvalidInput, err.Error())
	}

	tracks, err := selector.Resolve(ctx, reader, policy, selector.Input{
		TrackIDs:   p.TrackIDs,
		PlaylistID: p.PlaylistID,
		Filter:     sf,
		Max:        p.MaxTracks,
	})
	if err != nil {
		return nil, FromError(err)
	}
	return tracks, nil
}
