// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGenreTaxonomyCarriesProvenanceAndCanonicalEntries(t *testing.T) {
	svc := &Service{}

	result := svc.GetGenreTaxonomy()

	require.NotEmpty(t, result.Canonical)
	assert.Equal(t, manifestStatusFallback, result.ManifestStatus)
	assert.Equal(t, defaultConsultedDocuments, result.ConsultedDocuments)
}
