// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "burial  archangel", Normalize("  Burial - Archangel!!  "))
	assert.Equal(t, "aap rocky", Normalize("A$AP Rocky"))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "daft punk", Normalize("DAFT PUNK"))
}
