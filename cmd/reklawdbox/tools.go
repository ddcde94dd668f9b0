// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/libaudit"
	"github.com/ryanv/reklawdbox-go/internal/resolver"
	"github.com/ryanv/reklawdbox-go/internal/scoring"
	"github.com/ryanv/reklawdbox-go/internal/sequencing"
	"github.com/ryanv/reklawdbox-go/internal/toolsurface"
)

// toolDef bridges one internal/toolsurface.Service method to MCP's
// generic mcp.AddTool signature, which always wants
// func(ctx, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error).
// A *toolsurface.ToolError returned by the handler satisfies error (it
// implements Error()), so the SDK reports it as a failed tool call with
// the category/message/details intact.
func toolDef[In, Out any](name, description string, fn func(context.Context, In) (Out, *toolsurface.ToolError)) func(*mcp.Server) {
	return func(server *mcp.Server) {
		mcp.AddTool(server, &mcp.Tool{Name: name, Description: description},
			func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
				out, toolErr := fn(ctx, in)
				if toolErr != nil {
					var zero Out
					return nil, zero, toolErr
				}
				return nil, out, nil
			})
	}
}

type emptyParams struct{}

// registerTools adds every spec.md §4/§6 tool operation to server, each
// dispatching through svc. Grouped by subsystem in the same order
// original_source/src/tools/mod.rs declares its dispatch table.
func registerTools(server *mcp.Server, svc *toolsurface.Service) {
	defs := []func(*mcp.Server){
		// Catalog (4.1)
		toolDef("search_tracks", "Search and filter tracks in the library.",
			func(ctx context.Context, p toolsurface.SearchTracksParams) (toolsurface.SearchTracksResult, *toolsurface.ToolError) {
				r, err := svc.SearchTracks(ctx, p)
				return derefOr(r, toolsurface.SearchTracksResult{}), err
			}),
		toolDef("get_track", "Get full details for a specific track by identifier.",
			func(ctx context.Context, p toolsurface.GetTrackParams) (catalog.Track, *toolsurface.ToolError) {
				r, err := svc.GetTrack(ctx, p)
				return derefOr(r, catalog.Track{}), err
			}),
		toolDef("get_playlists", "List all playlists with track counts.",
			func(ctx context.Context, _ emptyParams) (toolsurface.GetPlaylistsResult, *toolsurface.ToolError) {
				r, err := svc.GetPlaylists(ctx)
				return derefOr(r, toolsurface.GetPlaylistsResult{}), err
			}),
		toolDef("get_playlist_tracks", "List tracks in one playlist, in track-number order.",
			func(ctx context.Context, p toolsurface.GetPlaylistTracksParams) (toolsurface.GetPlaylistTracksResult, *toolsurface.ToolError) {
				r, err := svc.GetPlaylistTracks(ctx, p)
				return derefOr(r, toolsurface.GetPlaylistTracksResult{}), err
			}),
		toolDef("read_library", "Report library-wide stats: track count, playlist count, genre distribution.",
			func(ctx context.Context, _ emptyParams) (toolsurface.LibrarySummary, *toolsurface.ToolError) {
				r, err := svc.GetLibrarySummary(ctx)
				return derefOr(r, toolsurface.LibrarySummary{}), err
			}),
		toolDef("get_genre_taxonomy", "Return the configured canonical genre taxonomy.",
			func(_ context.Context, _ emptyParams) (toolsurface.GenreTaxonomyResult, *toolsurface.ToolError) {
				return *svc.GetGenreTaxonomy(), nil
			}),
		toolDef("suggest_normalizations", "Bucket every distinct genre in the library into alias, unknown, and canonical groups.",
			func(ctx context.Context, _ emptyParams) (toolsurface.SuggestNormalizationsResult, *toolsurface.ToolError) {
				r, err := svc.SuggestNormalizations(ctx)
				return derefOr(r, toolsurface.SuggestNormalizationsResult{}), err
			}),

		// Audio analysis (4.5-4.7)
		toolDef("analyze_track_audio", "Run the DSP analyzer and feature extractor on one track's audio, caching results.",
			func(ctx context.Context, p toolsurface.AnalyzeTrackAudioParams) (toolsurface.AnalyzeTrackAudioResult, *toolsurface.ToolError) {
				r, err := svc.AnalyzeTrackAudio(ctx, p)
				return derefOr(r, toolsurface.AnalyzeTrackAudioResult{}), err
			}),
		toolDef("analyze_audio_batch", "Run audio analysis across a bounded selection of tracks.",
			func(ctx context.Context, p toolsurface.AnalyzeAudioBatchParams) (toolsurface.AnalyzeAudioBatchResult, *toolsurface.ToolError) {
				r, err := svc.AnalyzeAudioBatch(ctx, p)
				return derefOr(r, toolsurface.AnalyzeAudioBatchResult{}), err
			}),
		toolDef("setup_essentia", "Install the Essentia feature extractor into a managed Python venv.",
			func(ctx context.Context, _ emptyParams) (toolsurface.SetupEssentiaResult, *toolsurface.ToolError) {
				r, err := svc.SetupEssentia(ctx)
				return derefOr(r, toolsurface.SetupEssentiaResult{}), err
			}),

		// Enrichment (4.8)
		toolDef("lookup_discogs", "Look up a single track on Discogs, preferring a cached result.",
			func(ctx context.Context, p toolsurface.LookupDiscogsParams) (toolsurface.CacheEnvelope, *toolsurface.ToolError) {
				r, err := svc.LookupDiscogs(ctx, p)
				return derefOr(r, toolsurface.CacheEnvelope{}), err
			}),
		toolDef("lookup_beatport", "Look up a single track on Beatport, preferring a cached result.",
			func(ctx context.Context, p toolsurface.LookupBeatportParams) (toolsurface.CacheEnvelope, *toolsurface.ToolError) {
				r, err := svc.LookupBeatport(ctx, p)
				return derefOr(r, toolsurface.CacheEnvelope{}), err
			}),
		toolDef("enrich_tracks", "Batch enrich tracks via Discogs and/or Beatport.",
			func(ctx context.Context, p toolsurface.EnrichTracksParams) (toolsurface.EnrichTracksResult, *toolsurface.ToolError) {
				r, err := svc.EnrichTracks(ctx, p)
				return derefOr(r, toolsurface.EnrichTracksResult{}), err
			}),

		// Resolver (4.11-4.12)
		toolDef("resolve_track_data", "Fuse catalog, cached analysis, cached enrichment, and staged edits for one track.",
			func(ctx context.Context, p toolsurface.ResolveTrackDataParams) (resolver.Record, *toolsurface.ToolError) {
				r, err := svc.ResolveTrackData(ctx, p)
				return derefOr(r, resolver.Record{}), err
			}),
		toolDef("resolve_tracks_data", "Resolve a batch of track identifiers in request order.",
			func(ctx context.Context, p toolsurface.ResolveTracksDataParams) (toolsurface.ResolveTracksDataResult, *toolsurface.ToolError) {
				return *svc.ResolveTracksData(ctx, p), nil
			}),
		toolDef("cache_coverage", "Report cache-hit coverage for a filtered track set.",
			func(ctx context.Context, p toolsurface.CacheCoverageParams) (resolver.Coverage, *toolsurface.ToolError) {
				r, err := svc.CacheCoverage(ctx, p)
				return derefOr(r, resolver.Coverage{}), err
			}),

		// Scoring and sequencing (4.9-4.10)
		toolDef("score_transition", "Score a single transition between two tracks across all six axes.",
			func(ctx context.Context, p toolsurface.ScoreTransitionParams) (scoring.Composite, *toolsurface.ToolError) {
				r, err := svc.ScoreTransition(ctx, p)
				return derefOr(r, scoring.Composite{}), err
			}),
		toolDef("query_transition_candidates", "Rank pool tracks as transition candidates from a reference track.",
			func(ctx context.Context, p toolsurface.QueryTransitionCandidatesParams) (toolsurface.QueryTransitionCandidatesResult, *toolsurface.ToolError) {
				r, err := svc.QueryTransitionCandidates(ctx, p)
				return derefOr(r, toolsurface.QueryTransitionCandidatesResult{}), err
			}),
		toolDef("build_set", "Plan 1-3 candidate sequenced sets from a pool of tracks.",
			func(ctx context.Context, p toolsurface.BuildSetParams) (toolsurface.BuildSetResult, *toolsurface.ToolError) {
				r, err := svc.BuildSet(ctx, p)
				return derefOr(r, toolsurface.BuildSetResult{}), err
			}),
		toolDef("evaluate_ordering", "Score an already-fixed track ordering the same way a planner grades its own output.",
			func(ctx context.Context, p toolsurface.EvaluateOrderingParams) (sequencing.Evaluation, *toolsurface.ToolError) {
				r, err := svc.EvaluateOrdering(ctx, p)
				return derefOr(r, sequencing.Evaluation{}), err
			}),

		// Staging and export (4.3, §6)
		toolDef("update_tracks", "Stage changes to track metadata until write_xml runs.",
			func(_ context.Context, p toolsurface.UpdateTracksParams) (toolsurface.UpdateTracksResult, *toolsurface.ToolError) {
				r, err := svc.UpdateTracks(p)
				return derefOr(r, toolsurface.UpdateTracksResult{}), err
			}),
		toolDef("preview_changes", "Show what will differ from the current catalog state if staged changes were exported now.",
			func(ctx context.Context, p toolsurface.PreviewChangesParams) (toolsurface.PreviewChangesResult, *toolsurface.ToolError) {
				r, err := svc.PreviewChanges(ctx, p)
				return derefOr(r, toolsurface.PreviewChangesResult{}), err
			}),
		toolDef("clear_changes", "Clear staged changes for specific tracks, fields, or all.",
			func(_ context.Context, p toolsurface.ClearChangesParams) (toolsurface.ClearChangesResult, *toolsurface.ToolError) {
				return *svc.ClearChanges(p), nil
			}),
		toolDef("write_xml", "Write staged changes and optional playlists to a Rekordbox-compatible XML file.",
			func(ctx context.Context, p toolsurface.WriteXMLParams) (toolsurface.WriteXMLResult, *toolsurface.ToolError) {
				r, err := svc.WriteXML(ctx, p, time.Now().UTC())
				return derefOr(r, toolsurface.WriteXMLResult{}), err
			}),

		// Filesystem audit (4.13)
		toolDef("scan_library", "Walk a library scope, recheck changed files, and persist audit findings.",
			func(ctx context.Context, p toolsurface.ScanLibraryParams) (libaudit.ScanSummary, *toolsurface.ToolError) {
				r, err := svc.ScanLibrary(ctx, p)
				return derefOr(r, libaudit.ScanSummary{}), err
			}),
		toolDef("query_audit_issues", "List audit findings under a scope, with pagination.",
			func(ctx context.Context, p toolsurface.QueryAuditIssuesParams) (toolsurface.QueryAuditIssuesResult, *toolsurface.ToolError) {
				r, err := svc.QueryAuditIssues(ctx, p)
				return derefOr(r, toolsurface.QueryAuditIssuesResult{}), err
			}),
		toolDef("resolve_audit_issues", "Transition a set of audit findings to a human-decided resolution.",
			func(ctx context.Context, p toolsurface.ResolveAuditIssuesParams) (toolsurface.ResolveAuditIssuesResult, *toolsurface.ToolError) {
				r, err := svc.ResolveAuditIssues(ctx, p)
				return derefOr(r, toolsurface.ResolveAuditIssuesResult{}), err
			}),
		toolDef("get_audit_summary", "Report audit issue counts under a scope, broken down by type, safety tier, and status.",
			func(ctx context.Context, p toolsurface.GetAuditSummaryParams) (libaudit.SummaryReport, *toolsurface.ToolError) {
				r, err := svc.GetAuditSummary(ctx, p)
				return derefOr(r, libaudit.SummaryReport{}), err
			}),
	}

	for _, def := range defs {
		def(server)
	}
}

func derefOr[T any](v *T, zero T) T {
	if v == nil {
		return zero
	}
	return *v
}
