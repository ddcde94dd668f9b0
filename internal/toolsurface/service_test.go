// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
	"github.com/ryanv/reklawdbox-go/internal/extractor"
	"github.com/ryanv/reklawdbox-go/internal/provider"
)

func openTestCache(t *testing.T) *cachestore.Store {
	t.Helper()
	s, err := cachestore.Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewWiresDefaultSelectionPolicy(t *testing.T) {
	cache := openTestCache(t)
	changes := changemgr.New()
	bridge := extractor.New("", 10*time.Second)
	prober := extractor.NewProber("", "")

	svc := New(nil, cache, changes, &provider.DiscogsClient{}, &provider.BeatportClient{}, bridge, prober)

	assert.Equal(t, 200, svc.DefaultMaxSelection)
	assert.Equal(t, 2000, svc.HardCapSelection)
	assert.NotNil(t, svc.Resolver)
	assert.NotNil(t, svc.Scanner)
}

func TestSelectionPolicyCarriesExcludeSamples(t *testing.T) {
	svc := &Service{DefaultMaxSelection: 50, HardCapSelection: 500}

	withSamples := svc.selectionPolicy(true)
	assert.True(t, withSamples.ExcludeSamples)
	assert.Equal(t, 50, withSamples.DefaultMax)
	assert.Equal(t, 500, withSamples.HardCap)

	withoutSamples := svc.selectionPolicy(false)
	assert.False(t, withoutSamples.ExcludeSamples)
}
