// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package scoring

import (
	"math"
	"strconv"
)

// Priority selects which weight vector the composite score uses.
type Priority string

const (
	PriorityBalanced Priority = "balanced"
	PriorityHarmonic Priority = "harmonic"
	PriorityEnergy   Priority = "energy"
	PriorityGenre    Priority = "genre"
)

// weights holds the per-axis weight vector for one Priority. All six
// weights in a vector sum to 1.0.
type weights struct {
	key, tempo, energy, genre, brightness, rhythm float64
}

var priorityWeights = map[Priority]weights{
	PriorityBalanced: {key: 0.30, tempo: 0.20, energy: 0.18, genre: 0.17, brightness: 0.08, rhythm: 0.07},
	PriorityHarmonic: {key: 0.48, tempo: 0.18, energy: 0.12, genre: 0.08, brightness: 0.08, rhythm: 0.06},
	PriorityEnergy:   {key: 0.12, tempo: 0.18, energy: 0.42, genre: 0.12, brightness: 0.08, rhythm: 0.08},
	PriorityGenre:    {key: 0.18, tempo: 0.18, energy: 0.12, genre: 0.38, brightness: 0.08, rhythm: 0.06},
}

// Composite is the weighted, rounded result of scoring a candidate
// transition across all six axes.
type Composite struct {
	Score      float64
	Key        AxisScore
	Tempo      AxisScore
	Energy     AxisScore
	Genre      AxisScore
	Brightness AxisScore
	Rhythm     AxisScore
}

// Score computes the weighted composite transition score between from and
// to under the given priority, phase, and loudness-boundary flag. When
// brightness or rhythm is unavailable on either side, its weight is
// redistributed proportionally across the remaining axes rather than
// silently zeroed (spec.md §8 testable property #3).
func Score(from, to Profile, priority Priority, phase Phase, crossedBoundary bool) Composite {
	w, ok := priorityWeights[priority]
	if !ok {
		w = priorityWeights[PriorityBalanced]
	}

	key := KeyScore(from, to)
	tempo := TempoScore(from, to)
	energy := EnergyScore(from, to, phase, crossedBoundary)
	genre := GenreScore(from, to)
	brightness := BrightnessScore(from, to)
	rhythm := RhythmScore(from, to)

	brightnessMissing := !from.HasCentroid || !to.HasCentroid
	rhythmMissing := !from.HasRegularity || !to.HasRegularity

	w = renormalize(w, brightnessMissing, rhythmMissing)

	composite := key.Score*w.key + tempo.Score*w.tempo + energy.Score*w.energy +
		genre.Score*w.genre + brightness.Score*w.brightness + rhythm.Score*w.rhythm

	return Composite{
		Score:      roundTo3(composite),
		Key:        key,
		Tempo:      tempo,
		Energy:     energy,
		Genre:      genre,
		Brightness: brightness,
		Rhythm:     rhythm,
	}
}

// renormalize zeroes out the weight of any missing axis and redistributes
// it proportionally across the remaining five (or four) axes so the total
// weight mass used always sums to 1.0.
func renormalize(w weights, brightnessMissing, rhythmMissing bool) weights {
	if !brightnessMissing && !rhythmMissing {
		return w
	}

	dropped := 0.0
	if brightnessMissing {
		dropped += w.brightness
		w.brightness = 0
	}
	if rhythmMissing {
		dropped += w.rhythm
		w.rhythm = 0
	}
	if dropped == 0 {
		return w
	}

	remaining := w.key + w.tempo + w.energy + w.genre + w.brightness + w.rhythm
	if remaining == 0 {
		return w
	}
	scale := (remaining + dropped) / remaining

	w.key *= scale
	w.tempo *= scale
	w.energy *= scale
	w.genre *= scale
	w.brightness *= scale
	w.rhythm *= scale

	return w
}

func roundTo3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
