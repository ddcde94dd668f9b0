// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequencing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/scoring"
)

func makePool(n int) []PoolEntry {
	pool := make([]PoolEntry, n)
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		key, _ := scoring.ParseKey("Am")
		pool[i] = PoolEntry{
			Track: catalog.Track{ID: id, LengthSecs: 300},
			Profile: scoring.Profile{
				TrackID: id,
				Tempo:   120 + float64(i),
				Key:     key,
				HasKey:  true,
				Energy:  float64(i) / float64(n),
			},
		}
	}
	return pool
}

func TestTransitionPickRank(t *testing.T) {
	assert.Equal(t, 0, transitionPickRank(1, 5, 1))
	assert.Equal(t, 2, transitionPickRank(2, 1, 5))
	assert.Equal(t, 1, transitionPickRank(2, 4, 5))
	assert.Equal(t, 0, transitionPickRank(2, 5, 5))
	assert.Equal(t, 4, transitionPickRank(9, 1, 5))
}

func TestBuildGreedyNeverExceedsPoolSize(t *testing.T) {
	pool := makePool(5)
	start := pool[0]
	rest := removeEntry(pool, start.Track.ID)
	phases, err := ResolveCurve(CurveFlat, nil, 8)
	require.NoError(t, err)

	plan := BuildGreedy(start, rest, phases, scoring.PriorityBalanced, 0)
	assert.LessOrEqual(t, len(plan.Entries), 5)

	seen := map[string]bool{}
	for _, e := range plan.Entries {
		assert.False(t, seen[e.Track.ID], "duplicate track in plan")
		seen[e.Track.ID] = true
	}
}

func TestBuildCandidatesLabelsAndClamp(t *testing.T) {
	pool := makePool(10)
	phases, err := ResolveCurve(CurveFlat, nil, 4)
	require.NoError(t, err)

	plans := BuildCandidates(pool, phases, scoring.PriorityBalanced, 3, "")
	require.Len(t, plans, 3)
	assert.Equal(t, "A", plans[0].Label)
	assert.Equal(t, "B", plans[1].Label)
	assert.Equal(t, "C", plans[2].Label)
	for _, p := range plans {
		assert.Len(t, p.Entries, 4)
	}
}

func TestBuildCandidatesSingleWhenPoolSmall(t *testing.T) {
	pool := makePool(3)
	phases, err := ResolveCurve(CurveFlat, nil, 8)
	require.NoError(t, err)

	plans := BuildCandidates(pool, phases, scoring.PriorityBalanced, 3, "")
	require.Len(t, plans, 1)
	assert.Equal(t, "A", plans[0].Label)
	assert.LessOrEqual(t, len(plans[0].Entries), 3)
}

func TestBuildCandidatesForcedStart(t *testing.T) {
	pool := makePool(5)
	phases, err := ResolveCurve(CurveFlat, nil, 3)
	require.NoError(t, err)

	plans := BuildCandidates(pool, phases, scoring.PriorityBalanced, 1, "c")
	require.Len(t, plans, 1)
	assert.Equal(t, "c", plans[0].Entries[0].Track.ID)
}

func TestEnergyScalarPrefersIngredients(t *testing.T) {
	v := EnergyScalar(120, ExtractorIngredients{
		Danceability: 2.0, HasDanceability: true,
		IntegratedLoudness: -9, HasLoudness: true,
		OnsetRate: 5, HasOnsetRate: true,
	})
	assert.Greater(t, v, 0.0)
	assert.LessOrEqual(t, v, 1.0)
}

func TestEnergyScalarFallsBackToBPMProxy(t *testing.T) {
	v := EnergyScalar(145, ExtractorIngredients{})
	assert.InDelta(t, 1.0, v, 0.0001)
}
