// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithProvenanceReportsFallback(t *testing.T) {
	env := withProvenance()
	assert.Equal(t, manifestStatusFallback, env.ManifestStatus)
	assert.NotEmpty(t, env.ConsultedDocuments)
}
