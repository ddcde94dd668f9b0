// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHTMLWithQueries(queriesJSON string) string {
	return fmt.Sprintf(
		`<html><head><script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"dehydratedState":{"queries":%s}}}}</script></head><body></body></html>`,
		queriesJSON,
	)
}

func buildHTMLWithTracks(tracksJSON string) string {
	queries := fmt.Sprintf(`[{"state":{"data":{"data":%s}}}]`, tracksJSON)
	return buildHTMLWithQueries(queries)
}

func TestParseBeatportHTMLMissingNextData(t *testing.T) {
	_, err := parseBeatportHTML("<html><body>no data here</body></html>", "Burial", "Archangel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "__NEXT_DATA__")
}

func TestParseBeatportHTMLReturnsMatch(t *testing.T) {
	html := buildHTMLWithTracks(`[{
		"track_name": "Archangel",
		"artists": [{"artist_name": "Burial"}],
		"genre": [{"genre_name": "Dubstep"}],
		"bpm": 140,
		"key_name": "F# Minor"
	}]`)

	result, err := parseBeatportHTML(html, "Burial", "Archangel")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Archangel", result.TrackName)
	assert.Equal(t, "Dubstep", result.Genre)
	require.NotNil(t, result.BPM)
	assert.Equal(t, int32(140), *result.BPM)
	assert.Equal(t, []string{"Burial"}, result.Artists)
}

func TestParseBeatportHTMLInvalidJSON(t *testing.T) {
	html := `<html><head><script id="__NEXT_DATA__" type="application/json">{invalid json}</script></head><body></body></html>`
	_, err := parseBeatportHTML(html, "Burial", "Archangel")
	assert.Error(t, err)
}

func TestParseBeatportHTMLNoMatch(t *testing.T) {
	html := buildHTMLWithTracks(`[{
		"track_name": "Some Other Track",
		"artists": [{"artist_name": "Someone Else"}]
	}]`)

	result, err := parseBeatportHTML(html, "Burial", "Archangel")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestParseBeatportHTMLMatchesCaseInsensitiveSubstring(t *testing.T) {
	html := buildHTMLWithTracks(`[{
		"track_name": "ARCHANGEL (Original Mix)",
		"artists": [{"artist_name": "burial"}]
	}]`)

	result, err := parseBeatportHTML(html, "Burial", "archangel")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "ARCHANGEL (Original Mix)", result.TrackName)
}

func TestParseBeatportHTMLFindsMatchInNonzeroQueryIndex(t *testing.T) {
	queries := `[
		{"state":{"data":{"data":[]}}},
		{"state":{"data":{"data":[{"track_name":"Archangel","artists":[{"artist_name":"Burial"}]}]}}}
	]`
	html := buildHTMLWithQueries(queries)

	result, err := parseBeatportHTML(html, "Burial", "Archangel")
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestParseBeatportHTMLIgnoresOutOfRangeBPM(t *testing.T) {
	html := buildHTMLWithTracks(`[{
		"track_name": "Archangel",
		"artists": [{"artist_name": "Burial"}],
		"bpm": 99999999999
	}]`)

	result, err := parseBeatportHTML(html, "Burial", "Archangel")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Nil(t, result.BPM)
}

func TestParseBeatportHTMLEmptyTrackNameNeverMatches(t *testing.T) {
	html := buildHTMLWithTracks(`[{
		"track_name": "",
		"artists": [{"artist_name": "Burial"}]
	}]`)

	result, err := parseBeatportHTML(html, "Burial", "Archangel")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestIsTrackMatchRejectsEmptyInputs(t *testing.T) {
	track := map[string]any{
		"track_name": "Archangel",
		"artists":    []any{map[string]any{"artist_name": "Burial"}},
	}
	assert.False(t, isTrackMatch(track, "", "Archangel"))
	assert.False(t, isTrackMatch(track, "Burial", ""))
}
