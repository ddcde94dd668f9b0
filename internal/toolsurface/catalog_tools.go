// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/taxonomy"
)

// SearchTracksParams is search_tracks' parameter object.
type SearchTracksParams struct {
	SelectorParams
}

// SearchTracksResult is search_tracks' response.
type SearchTracksResult struct {
	Tracks []catalog.Track `json:"tracks"`
	Count  int             `json:"count"`
}

// SearchTracks searches and filters tracks in the library (spec.md §4.1,
// §4.12; original_source/src/tools/mod.rs: "search_tracks").
func (s *Service) SearchTracks(ctx context.Context, p SearchTracksParams) (*SearchTracksResult, *ToolError) {
	tracks, toolErr := resolveSelection(ctx, s.Catalog, s.selectionPolicy(true), p.SelectorParams)
	if toolErr != nil {
		return nil, toolErr
	}
	return &SearchTracksResult{Tracks: tracks, Count: len(tracks)}, nil
}

// GetTrackParams is get_track's parameter object.
type GetTrackParams struct {
	TrackID string `json:"track_id" validate:"required"`
}

// GetTrack gets full details for a specific track by identifier
// (original_source/src/tools/mod.rs: "get_track").
func (s *Service) GetTrack(ctx context.Context, p GetTrackParams) (*catalog.Track, *ToolError) {
	track, ok, err := s.Catalog.GetByID(ctx, p.TrackID)
	if err != nil {
		return nil, FromError(err)
	}
	if !ok {
		return nil, newToolError(CategoryNotFound, "no track with id "+p.TrackID)
	}
	return &track, nil
}

// GetPlaylistsResult is get_playlists' response.
type GetPlaylistsResult struct {
	Playlists []PlaylistSummary `json:"playlists"`
}

// PlaylistSummary augments catalog.Playlist with its track count
// (original_source/src/tools/mod.rs: "get_playlists": "track counts").
type PlaylistSummary struct {
	catalog.Playlist
	TrackCount int `json:"track_count"`
}

// GetPlaylists lists all playlists with track counts.
func (s *Service) GetPlaylists(ctx context.Context) (*GetPlaylistsResult, *ToolError) {
	playlists, err := s.Catalog.ListPlaylists(ctx)
	if err != nil {
		return nil, FromError(err)
	}
	out := make([]PlaylistSummary, len(playlists))
	for i, pl := range playlists {
		tracks, err := s.Catalog.PlaylistTracks(ctx, pl.ID, 0)
		if err != nil {
			return nil, FromError(err)
		}
		out[i] = PlaylistSummary{Playlist: pl, TrackCount: len(tracks)}
	}
	return &GetPlaylistsResult{Playlists: out}, nil
}

// GetPlaylistTracksParams is get_playlist_tracks' parameter object.
type GetPlaylistTracksParams struct {
	PlaylistID string `json:"playlist_id" validate:"required"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=0"`
}

// GetPlaylistTracksResult is get_playlist_tracks' response.
type GetPlaylistTracksResult struct {
	Tracks []catalog.Track `json:"tracks"`
}

// GetPlaylistTracks lists tracks in one playlist, in track-number order.
func (s *Service) GetPlaylistTracks(ctx context.Context, p GetPlaylistTracksParams) (*GetPlaylistTracksResult, *ToolError) {
	tracks, err := s.Catalog.PlaylistTracks(ctx, p.PlaylistID, p.Limit)
	if err != nil {
		return nil, FromError(err)
	}
	return &GetPlaylistTracksResult{Tracks: tracks}, nil
}

// LibrarySummary is read_library's response: track count, genre
// distribution, and high-level stats (original_source/src/tools/mod.rs:
// "get_library_summary" tool-named "read_library").
type LibrarySummary struct {
	TrackCount        int                  `json:"track_count"`
	PlaylistCount     int                  `json:"playlist_count"`
	GenreDistribution []catalog.GenreCount `json:"genre_distribution"`
}

// GetLibrarySummary reports library-wide stats.
func (s *Service) GetLibrarySummary(ctx context.Context) (*LibrarySummary, *ToolError) {
	tracks, err := s.Catalog.Search(ctx, catalog.SearchFilter{IncludeSamples: true})
	if err != nil {
		return nil, FromError(err)
	}
	genres, err := s.Catalog.GenreStats(ctx)
	if err != nil {
		return nil, FromError(err)
	}
	playlists, err := s.Catalog.ListPlaylists(ctx)
	if err != nil {
		return nil, FromError(err)
	}
	return &LibrarySummary{
		TrackCount:        len(tracks),
		PlaylistCount:     len(playlists),
		GenreDistribution: genres,
	}, nil
}

// GenreTaxonomyResult is get_genre_taxonomy's response, wrapped with the
// corpus-provenance envelope (spec.md §6): this is the one
// documentation-aware tool in the surface.
type GenreTaxonomyResult struct {
	ProvenanceEnvelope
	Canonical []taxonomy.CanonicalEntry `json:"canonical"`
}

// GetGenreTaxonomy returns the configured genre taxonomy.
func (s *Service) GetGenreTaxonomy() *GenreTaxonomyResult {
	return &GenreTaxonomyResult{
		ProvenanceEnvelope: withProvenance(),
		Canonical:          taxonomy.AllCanonical(),
	}
}
