// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package scoring

import "math"

// Phase is a nominal point on a set's energy arc.
type Phase string

const (
	PhaseWarmup  Phase = "warmup"
	PhaseBuild   Phase = "build"
	PhasePeak    Phase = "peak"
	PhaseRelease Phase = "release"
	PhaseNone    Phase = ""
)

// AxisScore is one scored axis: a value in [0,1] plus a human-readable label.
type AxisScore struct {
	Score float64
	Label string
}

// KeyScore scores the harmonic-key transition via the Camelot wheel.
func KeyScore(from, to Profile) AxisScore {
	if !from.HasKey || !to.HasKey {
		return AxisScore{0.1, "Clash (missing key)"}
	}

	delta := ((to.Key.Number - from.Key.Number) % 12 + 12) % 12
	sameNumber := from.Key.Number == to.Key.Number
	sameLetter := from.Key.Letter == to.Key.Letter

	switch {
	case sameNumber && sameLetter:
		return AxisScore{1.0, "Perfect"}
	case sameNumber && !sameLetter:
		return AxisScore{0.8, "Mood shift"}
	case sameLetter && delta == 1:
		return AxisScore{0.9, "Energy boost (+1)"}
	case sameLetter && delta == 11:
		return AxisScore{0.9, "Energy drop (-1)"}
	case sameLetter && (delta == 2 || delta == 10):
		return AxisScore{0.5, "Acceptable"}
	case !sameLetter && (delta == 1 || delta == 11):
		return AxisScore{0.4, "Rough"}
	default:
		return AxisScore{0.1, "Clash"}
	}
}

// TempoScore scores the BPM delta between two tracks.
func TempoScore(from, to Profile) AxisScore {
	delta := math.Abs(from.Tempo - to.Tempo)
	label := func(score float64) string {
		return labelWithDelta(score, delta)
	}
	switch {
	case delta <= 2:
		return AxisScore{1.0, label(1.0)}
	case delta <= 4:
		return AxisScore{0.8, label(0.8)}
	case delta <= 6:
		return AxisScore{0.5, label(0.5)}
	case delta <= 8:
		return AxisScore{0.3, label(0.3)}
	default:
		return AxisScore{0.1, label(0.1)}
	}
}

func labelWithDelta(score, delta float64) string {
	switch {
	case score >= 1.0:
		return "Locked tempo (Δ" + formatDelta(delta) + ")"
	case score >= 0.8:
		return "Close tempo (Δ" + formatDelta(delta) + ")"
	case score >= 0.5:
		return "Workable tempo (Δ" + formatDelta(delta) + ")"
	case score >= 0.3:
		return "Stretching tempo (Δ" + formatDelta(delta) + ")"
	default:
		return "Tempo clash (Δ" + formatDelta(delta) + ")"
	}
}

func formatDelta(delta float64) string {
	return trimFloat(delta)
}

// EnergyScore scores the energy-curve fit for a transition against a target
// phase, applying the two loudness-range boundary modifiers.
func EnergyScore(from, to Profile, phase Phase, crossedBoundary bool) AxisScore {
	deltaEnergy := to.Energy - from.Energy

	var score float64
	var label string

	switch phase {
	case PhaseWarmup:
		if deltaEnergy >= -0.03 && deltaEnergy <= 0.12 {
			score, label = 1.0, "Warmup build"
		} else {
			score, label = 0.5, "Off-curve warmup"
		}
	case PhaseBuild:
		if deltaEnergy >= 0.03 {
			score, label = 1.0, "Building"
		} else {
			score, label = 0.3, "Flat during build"
		}
	case PhasePeak:
		if to.Energy >= 0.65 && math.Abs(deltaEnergy) <= 0.10 {
			score, label = 1.0, "Sustained peak"
		} else {
			score, label = 0.5, "Off-curve peak"
		}
	case PhaseRelease:
		if deltaEnergy <= -0.03 {
			score, label = 1.0, "Releasing"
		} else {
			score, label = 0.3, "Flat during release"
		}
	default:
		score, label = 1.0, "No phase target"
	}

	if crossedBoundary && to.HasLoudnessRange && to.LoudnessRange > 8 {
		score += 0.10
		label += " + dynamic boundary boost"
	} else if phase == PhasePeak && !crossedBoundary && to.HasLoudnessRange && to.LoudnessRange < 4 {
		score += 0.05
		label += " + sustained-peak consistency boost"
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	return AxisScore{score, label}
}

// GenreScore scores genre affinity using canonical name and family matching.
func GenreScore(from, to Profile) AxisScore {
	if from.Genre == "" || to.Genre == "" {
		return AxisScore{0.5, "Unknown genre"}
	}
	if equalFold(from.Genre, to.Genre) {
		return AxisScore{1.0, "Same genre"}
	}
	if from.GenreFamily != "" && from.GenreFamily == to.GenreFamily && from.GenreFamily != "Other" {
		return AxisScore{0.7, "Same family"}
	}
	return AxisScore{0.3, "Different genre"}
}

// BrightnessScore scores spectral-centroid distance.
func BrightnessScore(from, to Profile) AxisScore {
	if !from.HasCentroid || !to.HasCentroid {
		return AxisScore{0.5, "Unknown brightness"}
	}
	delta := math.Abs(to.Centroid - from.Centroid)
	switch {
	case delta < 300:
		return AxisScore{1.0, "Matched brightness"}
	case delta < 800:
		return AxisScore{0.7, "Close brightness"}
	case delta < 1500:
		return AxisScore{0.4, "Brightness shift"}
	default:
		return AxisScore{0.2, "Brightness clash"}
	}
}

// RhythmScore scores rhythmic-regularity distance.
func RhythmScore(from, to Profile) AxisScore {
	if !from.HasRegularity || !to.HasRegularity {
		return AxisScore{0.5, "Unknown groove"}
	}
	delta := math.Abs(to.Regularity - from.Regularity)
	switch {
	case delta < 0.1:
		return AxisScore{1.0, "Locked groove"}
	case delta < 0.25:
		return AxisScore{0.7, "Close groove"}
	case delta < 0.5:
		return AxisScore{0.4, "Groove shift"}
	default:
		return AxisScore{0.2, "Groove clash"}
	}
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
