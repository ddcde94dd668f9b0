// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package libaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAlbumTrackWithYear(t *testing.T) {
	p := "/music/Artist/Album Name (2024)/01 Artist - Track.flac"
	assert.Equal(t, ContextAlbumTrack, ClassifyTrackContext(p))
}

func TestClassifyAlbumTrackWithTechSpecsAndYear(t *testing.T) {
	p := "/music/Artist/Album [FLAC] (2024)/01 Artist - Track.flac"
	assert.Equal(t, ContextAlbumTrack, ClassifyTrackContext(p))
}

func TestClassifyLooseTrackNoYear(t *testing.T) {
	p := "/music/Artist/Singles/Artist - Track.flac"
	assert.Equal(t, ContextLooseTrack, ClassifyTrackContext(p))
}

func TestClassifyPlayDirAlwaysLoose(t *testing.T) {
	p := "/music/play/Artist - Track.flac"
	assert.Equal(t, ContextLooseTrack, ClassifyTrackContext(p))
}

func TestClassifyDiscSubdirClimbsToAlbumDir(t *testing.T) {
	p := "/music/Artist/Album Name (2024)/CD1/01 Artist - Track.flac"
	assert.Equal(t, ContextAlbumTrack, ClassifyTrackContext(p))
}

func TestClassifyDiscSubdirWithoutYearIsLoose(t *testing.T) {
	p := "/music/Artist/Album Name/Disc 1/01 Artist - Track.flac"
	assert.Equal(t, ContextLooseTrack, ClassifyTrackContext(p))
}

func TestHasYearSuffix(t *testing.T) {
	assert.True(t, hasYearSuffix("Album Name (2024)"))
	assert.False(t, hasYearSuffix("Album Name (24)"))
	assert.False(t, hasYearSuffix("Album Name"))
	assert.False(t, hasYearSuffix("Album Name (20ab)"))
}

func TestNormalizeDirNameStripsTechSpecs(t *testing.T) {
	assert.Equal(t, "Album Name (2024)", normalizeDirName("Album Name [FLAC] (2024)"))
	assert.Equal(t, "Album Name (2024)", normalizeDirName("Album Name 24-96 (2024)"))
}

func TestIsDiscSubdir(t *testing.T) {
	assert.True(t, isDiscSubdir("CD1"))
	assert.True(t, isDiscSubdir("Disc 1"))
	assert.True(t, isDiscSubdir("disc2"))
	assert.False(t, isDiscSubdir("Album Name"))
}
