// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/catalog"
)

func openTestStore(t *testing.T) *cachestore.Store {
	t.Helper()
	s, err := cachestore.Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func trackAt(path string, tempo float64, key string) catalog.Track {
	return catalog.Track{ID: "t1", Path: path, Tempo: tempo, Key: key}
}
