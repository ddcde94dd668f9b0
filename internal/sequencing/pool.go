// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequencing

import (
	"sort"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/scoring"
)

// ExtractorIngredients are the feature-extractor-cache inputs used to
// derive an energy scalar. A zero value (all fields absent) falls back to
// the BPM proxy.
type ExtractorIngredients struct {
	Danceability       float64
	HasDanceability    bool
	IntegratedLoudness float64 // LUFS
	HasLoudness        bool
	OnsetRate          float64 // onsets/sec
	HasOnsetRate       bool
}

// PoolEntry is one pool member after profile construction: the Track plus
// its derived scoring Profile and estimated length.
type PoolEntry struct {
	Track   catalog.Track
	Profile scoring.Profile
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EnergyScalar computes the "energy" value in [0,1] for a track (spec.md
// §4.10 pool preparation). It prefers the feature-extractor ingredients
// when all three are present, falling back to a BPM proxy otherwise.
func EnergyScalar(tempo float64, ing ExtractorIngredients) float64 {
	if ing.HasDanceability && ing.HasLoudness && ing.HasOnsetRate {
		return 0.4*clamp01(ing.Danceability/3) +
			0.3*clamp01((ing.IntegratedLoudness+30)/30) +
			0.3*clamp01(ing.OnsetRate/10)
	}
	return clamp01((tempo - 95) / 50)
}

// SelectStartCandidates sorts the pool by energy — ascending when the
// first phase is Warmup or Build, descending otherwise — breaking ties by
// identifier, and returns the first n candidates to seed distinct
// variations.
func SelectStartCandidates(pool []PoolEntry, firstPhase scoring.Phase, n int) []PoolEntry {
	if n < 1 {
		n = 1
	}
	if n > len(pool) {
		n = len(pool)
	}

	ascending := firstPhase == scoring.PhaseWarmup || firstPhase == scoring.PhaseBuild

	sorted := make([]PoolEntry, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		ei, ej := sorted[i].Profile.Energy, sorted[j].Profile.Energy
		if ei != ej {
			if ascending {
				return ei < ej
			}
			return ei > ej
		}
		return sorted[i].Track.ID < sorted[j].Track.ID
	})

	return sorted[:n]
}

// ClampCandidateCount clamps a requested candidate count to 1..=3, further
// clamping to 1 when the pool cannot support variation (pool size <= T).
func ClampCandidateCount(requested, poolSize, t int) int {
	if requested < 1 {
		requested = 1
	}
	if requested > 3 {
		requested = 3
	}
	if poolSize <= t {
		return 1
	}
	return requested
}
