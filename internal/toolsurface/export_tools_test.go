// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupExistingReturnsEmptyWhenNoFileAtPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.xml")

	backup, err := backupExisting(path, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestBackupExistingCopiesFileAside(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.xml")
	require.NoError(t, os.WriteFile(path, []byte("<DJ_PLAYLISTS/>"), 0o644))
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

	backup, err := backupExisting(path, now)

	require.NoError(t, err)
	assert.Equal(t, path+".bak-20260304-153000", backup)

	contents, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "<DJ_PLAYLISTS/>", string(contents))

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<DJ_PLAYLISTS/>", string(original))
}
