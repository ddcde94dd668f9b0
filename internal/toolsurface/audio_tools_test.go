// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
)

func TestSkipCachedDefaultsToTrueWhenUnset(t *testing.T) {
	assert.True(t, AnalyzeTrackAudioParams{}.skipCached())
	assert.True(t, AnalyzeAudioBatchParams{}.skipCached())

	off := false
	assert.False(t, AnalyzeTrackAudioParams{SkipCached: &off}.skipCached())
	assert.False(t, AnalyzeAudioBatchParams{SkipCached: &off}.skipCached())
}

func TestAnalyzeTrackFileReportsFilesystemErrorForMissingFile(t *testing.T) {
	svc := &Service{Cache: openTestCache(t), Prober: extractor.NewProber("", "")}
	track := catalog.Track{ID: "t1", Path: filepath.Join(t.TempDir(), "missing.flac")}

	result, toolErr := svc.analyzeTrackFile(context.Background(), track, true)

	require.Nil(t, result)
	require.NotNil(t, toolErr)
	assert.Equal(t, CategoryFilesystem, toolErr.Category)
}

func TestSetupEssentiaFailsWithoutManagedVenvPath(t *testing.T) {
	svc := &Service{Prober: extractor.NewProber("", "")}

	result, toolErr := svc.SetupEssentia(context.Background())

	require.Nil(t, result)
	require.NotNil(t, toolErr)
	assert.Equal(t, CategoryExternalPermanent, toolErr.Category)
}
