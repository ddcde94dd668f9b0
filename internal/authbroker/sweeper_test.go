// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package authbroker

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
)

func openTestStore(t *testing.T) *cachestore.Store {
	t.Helper()
	s, err := cachestore.Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSweepOnceClearsExpiredSession(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.UpsertBrokerSession(cachestore.BrokerSession{
		BaseURL: "https://broker.example.com", Token: "tok", Expires: time.Now().Add(-time.Hour),
	}))

	sweeper := NewSessionSweeper(store, "https://broker.example.com", time.Minute)
	require.NoError(t, sweeper.sweepOnce())

	_, err := store.GetBrokerSession("https://broker.example.com")
	assert.ErrorIs(t, err, cachestore.ErrNotFound)
}

func TestSweepOnceLeavesLiveSessionAlone(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.UpsertBrokerSession(cachestore.BrokerSession{
		BaseURL: "https://broker.example.com", Token: "tok", Expires: time.Now().Add(time.Hour),
	}))

	sweeper := NewSessionSweeper(store, "https://broker.example.com", time.Minute)
	require.NoError(t, sweeper.sweepOnce())

	rec, err := store.GetBrokerSession("https://broker.example.com")
	require.NoError(t, err)
	assert.Equal(t, "tok", rec.Token)
}

func TestSweepOnceNoSessionIsNoop(t *testing.T) {
	store := openTestStore(t)
	sweeper := NewSessionSweeper(store, "https://broker.example.com", time.Minute)
	assert.NoError(t, sweeper.sweepOnce())
}
