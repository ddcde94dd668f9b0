// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sequencing implements the greedy and beam-search set planners of
// spec.md §4.10: building ordered track sets from a pool that respect an
// energy curve and the scoring engine's transition composites.
package sequencing

import (
	"fmt"

	"github.com/ryanv/reklawdbox-go/internal/scoring"
)

// CurvePreset names one of the built-in energy-curve presets.
type CurvePreset string

const (
	CurveWarmupBuildPeakRelease CurvePreset = "warmup_build_peak_release"
	CurveFlat                   CurvePreset = "flat"
	CurvePeakOnly               CurvePreset = "peak_only"
)

// ResolveCurve expands a preset (or an explicit custom sequence) into a
// length-T sequence of phases. A custom sequence must already have length
// T; ResolveCurve rejects it otherwise.
func ResolveCurve(preset CurvePreset, custom []scoring.Phase, t int) ([]scoring.Phase, error) {
	if custom != nil {
		if len(custom) != t {
			return nil, fmt.Errorf("sequencing: custom curve has length %d, want %d", len(custom), t)
		}
		out := make([]scoring.Phase, t)
		copy(out, custom)
		return out, nil
	}

	out := make([]scoring.Phase, t)
	for p := 0; p < t; p++ {
		frac := float64(p) / float64(t)
		switch preset {
		case CurveFlat:
			out[p] = scoring.PhasePeak
		case CurvePeakOnly:
			switch {
			case frac < 0.10:
				out[p] = scoring.PhaseBuild
			case frac < 0.85:
				out[p] = scoring.PhasePeak
			default:
				out[p] = scoring.PhaseRelease
			}
		default: // CurveWarmupBuildPeakRelease
			switch {
			case frac < 0.15:
				out[p] = scoring.PhaseWarmup
			case frac < 0.45:
				out[p] = scoring.PhaseBuild
			case frac < 0.75:
				out[p] = scoring.PhasePeak
			default:
				out[p] = scoring.PhaseRelease
			}
		}
	}
	return out, nil
}
