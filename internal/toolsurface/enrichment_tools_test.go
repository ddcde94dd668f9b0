// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/provider"
)

func TestLookupDiscogsReturnsCachedResultWithoutCallingProvider(t *testing.T) {
	cache := openTestCache(t)
	svc := &Service{Cache: cache}

	artist, title := provider.Normalize("Surgeon"), provider.Normalize("Badger Bite")
	payload, err := json.Marshal(provider.DiscogsResult{Title: "Badger Bite", Label: "Tresor"})
	require.NoError(t, err)
	require.NoError(t, cache.UpsertEnrichment(cachestore.EnrichmentRecord{
		Provider: provider.NameDiscogs, QueryArtist: artist, QueryTitle: title,
		MatchQuality: cachestore.MatchExact, Payload: payload, CachedAt: time.Now().UTC(),
	}))

	env, toolErr := svc.LookupDiscogs(context.Background(), LookupDiscogsParams{Artist: "Surgeon", Title: "Badger Bite"})

	require.Nil(t, toolErr)
	assert.True(t, env.CacheHit)
	require.NotNil(t, env.CachedAt)
	result, ok := env.Result.(provider.DiscogsResult)
	require.True(t, ok)
	assert.Equal(t, "Badger Bite", result.Title)
}

func TestLookupDiscogsReturnsNilResultOnCachedNoMatch(t *testing.T) {
	cache := openTestCache(t)
	svc := &Service{Cache: cache}

	artist, title := provider.Normalize("Nobody"), provider.Normalize("Nothing")
	require.NoError(t, cache.UpsertEnrichment(cachestore.EnrichmentRecord{
		Provider: provider.NameDiscogs, QueryArtist: artist, QueryTitle: title,
		MatchQuality: cachestore.MatchNone, CachedAt: time.Now().UTC(),
	}))

	env, toolErr := svc.LookupDiscogs(context.Background(), LookupDiscogsParams{Artist: "Nobody", Title: "Nothing"})

	require.Nil(t, toolErr)
	assert.True(t, env.CacheHit)
	assert.Nil(t, env.Result)
}

func TestLookupBeatportReturnsCachedResultWithoutCallingProvider(t *testing.T) {
	cache := openTestCache(t)
	svc := &Service{Cache: cache}

	artist, title := provider.Normalize("Perc"), provider.Normalize("Wax & Wane")
	payload, err := json.Marshal(provider.BeatportResult{})
	require.NoError(t, err)
	require.NoError(t, cache.UpsertEnrichment(cachestore.EnrichmentRecord{
		Provider: provider.NameBeatport, QueryArtist: artist, QueryTitle: title,
		MatchQuality: cachestore.MatchExact, Payload: payload, CachedAt: time.Now().UTC(),
	}))

	env, toolErr := svc.LookupBeatport(context.Background(), LookupBeatportParams{Artist: "Perc", Title: "Wax & Wane"})

	require.Nil(t, toolErr)
	assert.True(t, env.CacheHit)
	require.NotNil(t, env.CachedAt)
}
