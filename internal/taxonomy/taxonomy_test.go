// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalCasing(t *testing.T) {
	assert.Equal(t, "Techno", CanonicalCasing("techno"))
	assert.Equal(t, "Deep House", CanonicalCasing("DEEP HOUSE"))
	assert.Equal(t, "", CanonicalCasing("not a genre"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Drum & Bass", Normalize("dnb"))
	assert.Equal(t, "Drum & Bass", Normalize("Drum And Bass"))
	assert.Equal(t, "", Normalize("Techno"))
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("House"))
	assert.True(t, IsKnown("dnb"))
	assert.False(t, IsKnown("Space Jazz"))
}

func TestFamilyOf(t *testing.T) {
	family, ok := FamilyOf("Dubstep")
	assert.True(t, ok)
	assert.Equal(t, FamilyBass, family)

	_, ok = FamilyOf("Not Canonical")
	assert.False(t, ok)
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "Techno", Canonicalize("TECHNO"))
	assert.Equal(t, "Drum & Bass", Canonicalize("dnb"))
	assert.Equal(t, "", Canonicalize("unknown-genre"))
}
