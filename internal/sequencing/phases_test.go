// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package sequencing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/scoring"
)

func TestResolveCurveWarmupBuildPeakRelease(t *testing.T) {
	phases, err := ResolveCurve(CurveWarmupBuildPeakRelease, nil, 20)
	require.NoError(t, err)
	require.Len(t, phases, 20)
	assert.Equal(t, scoring.PhaseWarmup, phases[0])
	assert.Equal(t, scoring.PhaseRelease, phases[19])
}

func TestResolveCurveFlat(t *testing.T) {
	phases, err := ResolveCurve(CurveFlat, nil, 5)
	require.NoError(t, err)
	for _, p := range phases {
		assert.Equal(t, scoring.PhasePeak, p)
	}
}

func TestResolveCurvePeakOnly(t *testing.T) {
	phases, err := ResolveCurve(CurvePeakOnly, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, scoring.PhaseBuild, phases[0])
	assert.Equal(t, scoring.PhaseRelease, phases[9])
}

func TestResolveCurveCustomMustMatchLength(t *testing.T) {
	_, err := ResolveCurve(CurveFlat, []scoring.Phase{scoring.PhasePeak}, 3)
	assert.Error(t, err)

	custom := []scoring.Phase{scoring.PhaseWarmup, scoring.PhaseBuild, scoring.PhasePeak}
	phases, err := ResolveCurve(CurveFlat, custom, 3)
	require.NoError(t, err)
	assert.Equal(t, custom, phases)
}
