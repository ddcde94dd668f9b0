// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapCacheResultLiveOmitsCachedAt(t *testing.T) {
	env := WrapCacheResult(map[string]string{"artist": "x"}, false, time.Time{})
	assert.False(t, env.CacheHit)
	assert.Nil(t, env.CachedAt)
	assert.Equal(t, map[string]string{"artist": "x"}, env.Result)
}

func TestWrapCacheResultCachedSetsCachedAt(t *testing.T) {
	when := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env := WrapCacheResult(nil, true, when)
	assert.True(t, env.CacheHit)
	require.NotNil(t, env.CachedAt)
	assert.True(t, env.CachedAt.Equal(when))
	assert.Nil(t, env.Result)
}
