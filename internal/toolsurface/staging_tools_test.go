// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/changemgr"
)

func newStagingService() *Service {
	return &Service{Changes: changemgr.New()}
}

func TestUpdateTracksStagesAcceptedOverlays(t *testing.T) {
	svc := newStagingService()
	genre := "Techno"

	result, toolErr := svc.UpdateTracks(UpdateTracksParams{
		Changes: []OverlayParams{{TrackID: "t1", Genre: &genre}},
	})

	require.Nil(t, toolErr)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Pending)
	assert.Empty(t, result.Warnings)
}

func TestUpdateTracksRejectsInvalidRating(t *testing.T) {
	svc := newStagingService()
	badRating := 9

	_, toolErr := svc.UpdateTracks(UpdateTracksParams{
		Changes: []OverlayParams{{TrackID: "t1", Rating: &badRating}},
	})

	require.NotNil(t, toolErr)
	assert.Equal(t, CategoryInvalidInput, toolErr.Category)
}

func TestUpdateTracksCollectsFieldWarnings(t *testing.T) {
	svc := newStagingService()
	unknownGenre := "space disco jazz fusion"

	result, toolErr := svc.UpdateTracks(UpdateTracksParams{
		Changes: []OverlayParams{{TrackID: "t1", Genre: &unknownGenre}},
	})

	require.Nil(t, toolErr)
	assert.Equal(t, 1, result.Accepted)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "t1")
}

func TestUpdateTracksRejectsUnknownColor(t *testing.T) {
	svc := newStagingService()
	unknownColor := "mauve"

	_, toolErr := svc.UpdateTracks(UpdateTracksParams{
		Changes: []OverlayParams{{TrackID: "t1", Color: &unknownColor}},
	})

	require.NotNil(t, toolErr)
	assert.Equal(t, CategoryInvalidInput, toolErr.Category)
}

func TestClearChangesClearsFullEntryWhenNoFieldsGiven(t *testing.T) {
	svc := newStagingService()
	genre := "Techno"
	svc.Changes.Stage([]changemgr.StagedOverlay{{TrackID: "t1", Overlay: changemgr.Overlay{Genre: &genre}}})

	result := svc.ClearChanges(ClearChangesParams{TrackIDs: []string{"t1"}})

	assert.Equal(t, 1, result.Cleared)
	assert.Equal(t, 0, result.Remaining)
	_, ok := svc.Changes.Get("t1")
	assert.False(t, ok)
}

func TestClearChangesClearsOnlyNamedFields(t *testing.T) {
	svc := newStagingService()
	genre, comments := "Techno", "banger"
	svc.Changes.Stage([]changemgr.StagedOverlay{{TrackID: "t1", Overlay: changemgr.Overlay{Genre: &genre, Comments: &comments}}})

	result := svc.ClearChanges(ClearChangesParams{TrackIDs: []string{"t1"}, Fields: []string{"genre"}})

	assert.Equal(t, 1, result.Cleared)
	assert.Equal(t, 1, result.Remaining)
	overlay, ok := svc.Changes.Get("t1")
	require.True(t, ok)
	assert.Nil(t, overlay.Genre)
	require.NotNil(t, overlay.Comments)
	assert.Equal(t, "banger", *overlay.Comments)
}

func TestClearChangesClearsEverythingWhenNoTrackIDsGiven(t *testing.T) {
	svc := newStagingService()
	genre := "Techno"
	svc.Changes.Stage([]changemgr.StagedOverlay{
		{TrackID: "t1", Overlay: changemgr.Overlay{Genre: &genre}},
		{TrackID: "t2", Overlay: changemgr.Overlay{Genre: &genre}},
	})

	result := svc.ClearChanges(ClearChangesParams{})

	assert.Equal(t, 2, result.Cleared)
	assert.Equal(t, 0, result.Remaining)
}
