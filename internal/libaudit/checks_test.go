// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package libaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/tagio"
)

func tagsResult(overrides map[string]string) tagio.ReadResult {
	tags := make(map[string]string, len(tagio.AllFields))
	for _, f := range tagio.AllFields {
		tags[f] = overrides[f]
	}
	return tagio.ReadResult{Tags: tags}
}

func TestCheckTagsNoTagsShortCircuits(t *testing.T) {
	issues := checkTags(tagsResult(nil), ContextLooseTrack, nil)
	require.Len(t, issues, 1)
	assert.Equal(t, NoTags, issues[0].Type)
}

func TestCheckTagsEmptyArtistAndTitle(t *testing.T) {
	issues := checkTags(tagsResult(map[string]string{"album": "Something"}), ContextLooseTrack, nil)
	types := issueTypes(issues)
	assert.Contains(t, types, EmptyArtist)
	assert.Contains(t, types, EmptyTitle)
}

func TestCheckTagsAlbumContextRequiresTrackAlbumYear(t *testing.T) {
	issues := checkTags(tagsResult(map[string]string{"artist": "A", "title": "T"}), ContextAlbumTrack, nil)
	types := issueTypes(issues)
	assert.Contains(t, types, MissingTrackNum)
	assert.Contains(t, types, MissingAlbum)
	assert.Contains(t, types, MissingYear)
}

func TestCheckTagsDateTagSuppressesMissingYear(t *testing.T) {
	issues := checkTags(tagsResult(map[string]string{"artist": "A", "title": "T", "album": "Al", "track": "1", "date": "2012-05-01"}), ContextAlbumTrack, nil)
	assert.NotContains(t, issueTypes(issues), MissingYear)
}

func TestCheckTagsSkipSet(t *testing.T) {
	issues := checkTags(tagsResult(map[string]string{"album": "x"}), ContextLooseTrack, map[IssueType]bool{NoTags: true, EmptyArtist: true})
	types := issueTypes(issues)
	assert.NotContains(t, types, NoTags)
	assert.NotContains(t, types, EmptyArtist)
	assert.Contains(t, types, EmptyTitle)
}

func TestCheckTagsArtistInTitleDetected(t *testing.T) {
	r := tagsResult(map[string]string{"artist": "Daft Punk", "title": "DAFT PUNK - One More Time"})
	issues := checkTags(r, ContextLooseTrack, nil)
	require.Contains(t, issueTypes(issues), ArtistInTitle)
	for _, i := range issues {
		if i.Type == ArtistInTitle {
			assert.Equal(t, "One More Time", i.Detail["new_title"])
		}
	}
}

func TestCheckTagsGenreSetReportsValue(t *testing.T) {
	r := tagsResult(map[string]string{"artist": "A", "title": "T", "genre": "Techno"})
	issues := checkTags(r, ContextLooseTrack, nil)
	for _, i := range issues {
		if i.Type == GenreSet {
			assert.Equal(t, "Techno", i.Detail["genre"])
			return
		}
	}
	t.Fatal("expected GENRE_SET issue")
}

func TestCheckTagsWavDriftAndMissing(t *testing.T) {
	r := tagio.ReadResult{
		IsWAV:       true,
		ID3v2:       map[string]string{"artist": "Artist A", "title": "Title A", "album": "", "genre": "", "year": "", "comment": ""},
		RIFFInfo:    map[string]string{"artist": "Artist B", "title": "", "album": "", "genre": "", "year": "", "comment": ""},
		Tag3Missing: []string{"title"},
	}
	issues := checkTags(r, ContextLooseTrack, nil)
	types := issueTypes(issues)
	assert.Contains(t, types, WavTag3Missing)
	assert.Contains(t, types, WavTagDrift)
}

func TestCheckFilenameOriginalMixSuffix(t *testing.T) {
	issues := checkFilename("/music/play/Artist - Track (Original Mix).flac", tagsResult(nil), ContextLooseTrack, nil)
	require.Contains(t, issueTypes(issues), OriginalMixSuffix)
}

func TestCheckFilenameBadFilenameLooseContext(t *testing.T) {
	issues := checkFilename("/music/play/NotASeparatedName.flac", tagio.ReadResult{Err: assert.AnError}, ContextLooseTrack, nil)
	assert.Contains(t, issueTypes(issues), BadFilename)
}

func TestCheckFilenameTagDriftDetected(t *testing.T) {
	r := tagsResult(map[string]string{"artist": "Artist", "title": "Different Title"})
	issues := checkFilename("/music/play/Artist - Track Title.flac", r, ContextLooseTrack, nil)
	require.Contains(t, issueTypes(issues), FilenameTagDrift)
}

func issueTypes(issues []DetectedIssue) []IssueType {
	out := make([]IssueType, len(issues))
	for i, issue := range issues {
		out[i] = issue.Type
	}
	return out
}
