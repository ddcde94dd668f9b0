// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterParamsToSearchFilterParsesDates(t *testing.T) {
	f := FilterParams{
		Query:       "acid",
		AddedAfter:  "2025-01-01",
		AddedBefore: "2025-12-31",
	}
	sf, err := f.toSearchFilter()
	require.NoError(t, err)
	assert.Equal(t, "acid", sf.FreeText)
	assert.True(t, sf.AddedAfter.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, sf.AddedBefore.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestFilterParamsToSearchFilterRejectsBadDates(t *testing.T) {
	_, err := FilterParams{AddedAfter: "not-a-date"}.toSearchFilter()
	assert.Error(t, err)

	_, err = FilterParams{AddedBefore: "31-12-2025"}.toSearchFilter()
	assert.Error(t, err)
}

func TestFilterParamsToSearchFilterCarriesOptionalFields(t *testing.T) {
	hasGenre := true
	f := FilterParams{
		Artist:    "Surgeon",
		Genre:     "Techno",
		RatingMin: 4,
		BpmMin:    120,
		BpmMax:    135,
		Key:       "8A",
		HasGenre:  &hasGenre,
		Label:     "Tresor",
		Path:      "/music/techno",
	}
	sf, err := f.toSearchFilter()
	require.NoError(t, err)
	assert.Equal(t, "Surgeon", sf.Artist)
	assert.Equal(t, "Techno", sf.Genre)
	assert.Equal(t, 4, sf.MinRating)
	assert.Equal(t, 120.0, sf.MinTempo)
	assert.Equal(t, 135.0, sf.MaxTempo)
	assert.Equal(t, "8A", sf.Key)
	require.NotNil(t, sf.HasGenre)
	assert.True(t, *sf.HasGenre)
	assert.Equal(t, "Tresor", sf.Label)
	assert.Equal(t, "/music/techno", sf.PathContains)
}
