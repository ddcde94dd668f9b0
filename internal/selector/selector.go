// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package selector implements Track Selection (spec.md §4.12), the shared
// track-set resolution logic used by the sequencing, resolver, audit, and
// export tools: a strict priority order of explicit identifiers, then
// playlist membership, then search filters, with a caller/default/hard-cap
// maximum and optional factory-sample exclusion.
package selector

import (
	"context"
	"fmt"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
)

// Policy configures how a selection's effective maximum is derived. It is
// supplied once per tool, not per request.
type Policy struct {
	// DefaultMax applies when the caller supplies no maximum and no
	// explicit identifiers were given (identifiers imply default =
	// their count).
	DefaultMax int
	// HardCap clamps the effective maximum regardless of source. Zero
	// means unbounded.
	HardCap int
	// ExcludeSamples, when true, drops factory-sample paths before
	// truncation to the effective maximum.
	ExcludeSamples bool
}

// Input is the caller-supplied selector, honored in strict priority order:
// TrackIDs, then PlaylistID, then Filter.
type Input struct {
	TrackIDs   []string
	PlaylistID string
	Filter     catalog.SearchFilter
	// Max is the caller-supplied maximum. Zero means "not supplied",
	// deferring to Policy.DefaultMax (or the identifier count).
	Max int
}

// Resolve materializes a track set from in, ordered per spec.md §4.12:
// identifier order is arbitrary (catalog order), playlist order follows
// track-number sequence, filter order is the catalog's natural order.
// Any selection exceeding the effective maximum is truncated after any
// sample exclusion.
func Resolve(ctx context.Context, reader *catalog.Reader, policy Policy, in Input) ([]catalog.Track, error) {
	var (
		tracks       []catalog.Track
		err          error
		effectiveMax int
	)

	switch {
	case len(in.TrackIDs) > 0:
		tracks, err = reader.GetByIDs(ctx, in.TrackIDs)
		effectiveMax = len(in.TrackIDs)
	case in.PlaylistID != "":
		tracks, err = reader.PlaylistTracks(ctx, in.PlaylistID, 0)
		effectiveMax = policy.DefaultMax
	default:
		tracks, err = reader.Search(ctx, in.Filter)
		effectiveMax = policy.DefaultMax
	}
	if err != nil {
		return nil, fmt.Errorf("selector: resolve: %w", err)
	}

	if in.Max > 0 {
		effectiveMax = in.Max
	}
	if policy.HardCap > 0 && (effectiveMax <= 0 || effectiveMax > policy.HardCap) {
		effectiveMax = policy.HardCap
	}

	if policy.ExcludeSamples {
		tracks = excludeSamples(tracks)
	}

	if effectiveMax > 0 && len(tracks) > effectiveMax {
		tracks = tracks[:effectiveMax]
	}
	return tracks, nil
}

func excludeSamples(tracks []catalog.Track) []catalog.Track {
	out := make([]catalog.Track, 0, len(tracks))
	for _, t := range tracks {
		if !t.IsSample() {
			out = append(out, t)
		}
	}
	return out
}
