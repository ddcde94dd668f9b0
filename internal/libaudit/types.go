// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package libaudit scans a library scope for filename/tag convention
// drift, classifies each finding by safety tier, and tracks resolution
// state alongside the on-disk file it was detected against.
//
// The name marks what is audited: library conventions, not application
// events.
package libaudit

import "github.com/ryanv/reklawdbox-go/internal/cachestore"

// IssueType names one convention check.
type IssueType string

const (
	EmptyArtist       IssueType = "EMPTY_ARTIST"
	EmptyTitle        IssueType = "EMPTY_TITLE"
	MissingTrackNum   IssueType = "MISSING_TRACK_NUM"
	MissingAlbum      IssueType = "MISSING_ALBUM"
	MissingYear       IssueType = "MISSING_YEAR"
	ArtistInTitle     IssueType = "ARTIST_IN_TITLE"
	WavTag3Missing    IssueType = "WAV_TAG3_MISSING"
	WavTagDrift       IssueType = "WAV_TAG_DRIFT"
	GenreSet          IssueType = "GENRE_SET"
	NoTags            IssueType = "NO_TAGS"
	BadFilename       IssueType = "BAD_FILENAME"
	OriginalMixSuffix IssueType = "ORIGINAL_MIX_SUFFIX"
	TechSpecsInDir    IssueType = "TECH_SPECS_IN_DIR"
	MissingYearInDir  IssueType = "MISSING_YEAR_IN_DIR"
	FilenameTagDrift  IssueType = "FILENAME_TAG_DRIFT"
)

// SafetyTier buckets an issue type by how confidently it can be acted on
// without a human decision.
type SafetyTier string

const (
	TierSafe       SafetyTier = "safe"
	TierRenameSafe SafetyTier = "rename_safe"
	TierReview     SafetyTier = "review"
)

var safetyTiers = map[IssueType]SafetyTier{
	ArtistInTitle:  TierSafe,
	WavTag3Missing: TierSafe,
	WavTagDrift:    TierSafe,

	OriginalMixSuffix: TierRenameSafe,
	TechSpecsInDir:    TierRenameSafe,

	EmptyArtist:      TierReview,
	EmptyTitle:       TierReview,
	MissingTrackNum:  TierReview,
	MissingAlbum:     TierReview,
	MissingYear:      TierReview,
	GenreSet:         TierReview,
	NoTags:           TierReview,
	BadFilename:      TierReview,
	MissingYearInDir: TierReview,
	FilenameTagDrift: TierReview,
}

// Tier returns the safety tier for t.
func (t IssueType) Tier() SafetyTier { return safetyTiers[t] }

// Context classifies a track's place in the library: inside a dated album
// directory, or loose (a single, a "play" drop, anything else).
type Context string

const (
	ContextAlbumTrack Context = "album_track"
	ContextLooseTrack Context = "loose_track"
)

// DetectedIssue is one convention-check finding before it is persisted.
type DetectedIssue struct {
	Type   IssueType
	Detail map[string]any
}

// Resolution is the terminal disposition an operator assigns a finding.
// "fixed" is reserved for the scanner's own auto-resolution and is never
// accepted from a resolve call.
type Resolution string

const (
	ResolutionAcceptedAsIs Resolution = "accepted_as_is"
	ResolutionWontFix      Resolution = "wont_fix"
	ResolutionDeferred     Resolution = "deferred"
)

func (r Resolution) cacheStatus() cachestore.AuditIssueStatus {
	switch r {
	case ResolutionAcceptedAsIs:
		return cachestore.AuditIssueAcceptedAsIs
	case ResolutionWontFix:
		return cachestore.AuditIssueWontFix
	case ResolutionDeferred:
		return cachestore.AuditIssueDeferred
	default:
		return ""
	}
}
