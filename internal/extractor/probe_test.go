// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeVersion(t *testing.T) {
	assert.True(t, looksLikeVersion("2.1b6.dev1034\n"))
	assert.True(t, looksLikeVersion("  2.1  "))
	assert.False(t, looksLikeVersion(""))
	assert.False(t, looksLikeVersion("Traceback (most recent call last):"))
}

func TestProberCandidateListPrefersEnvOverride(t *testing.T) {
	p := NewProber("/custom/python", "/venv/python3")
	assert.Equal(t, []string{"/custom/python"}, p.candidateList())
}

func TestProberCandidateListFallsBackToVenvThenCandidates(t *testing.T) {
	p := NewProber("", "/venv/python3")
	candidates := p.candidateList()
	require.True(t, len(candidates) > 1)
	assert.Equal(t, "/venv/python3", candidates[0])
}
