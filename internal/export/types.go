// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a Rekordbox-compatible XML document: the current
// catalog view of a track set, with any staged changemgr edits applied,
// plus optional named playlists. A failed export never leaves a partial
// file on disk and never loses the staged edits it drained to build it.
package export

import "errors"

// ErrMissingPlaylistTrack is returned when a playlist definition names a
// track ID that isn't present in the set of tracks being exported.
var ErrMissingPlaylistTrack = errors.New("export: playlist references a track ID outside the export set")

// PlaylistDefinition names a playlist and its ordered track membership.
type PlaylistDefinition struct {
	Name     string
	TrackIDs []string
}

// Request configures one export.
type Request struct {
	// OutputPath is where the XML document is written. Empty selects the
	// default "./rekordbox-exports/reklawdbox-<local-timestamp>.xml".
	OutputPath string
	Playlists  []PlaylistDefinition
}

// Result reports what was written.
type Result struct {
	Path          string
	TrackCount    int
	PlaylistCount int
}

const defaultOutputDirFormat = "rekordbox-exports/reklawdbox-%s.xml"
const defaultTimestampLayout = "20060102-150405"
