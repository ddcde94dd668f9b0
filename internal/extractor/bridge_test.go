// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInterpreter writes a tiny shell script masquerading as a Python
// interpreter, for exercising Bridge.Run without a real Python install.
func fakeInterpreter(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-python")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestBridgeRunParsesJSON(t *testing.T) {
	interp := fakeInterpreter(t, `echo '{"danceability":2.1,"integrated_loudness":-8,"onset_rate":4,"spectral_centroid":1200,"rhythm_regularity":0.4,"loudness_range":6}'`)
	b := New(interp, time.Second)

	ing, err := b.Run(context.Background(), "/music/track.flac")
	require.NoError(t, err)
	assert.Equal(t, 2.1, ing.Danceability)
	assert.Equal(t, 1200.0, ing.SpectralCentroid)
}

func TestBridgeRunEmptyStdoutIsError(t *testing.T) {
	interp := fakeInterpreter(t, `exit 0`)
	b := New(interp, time.Second)

	_, err := b.Run(context.Background(), "/music/track.flac")
	assert.Error(t, err)
}

func TestBridgeRunNonZeroExitIsError(t *testing.T) {
	interp := fakeInterpreter(t, `echo "boom" 1>&2; exit 1`)
	b := New(interp, time.Second)

	_, err := b.Run(context.Background(), "/music/track.flac")
	assert.Error(t, err)
}

func TestBridgeRunMalformedJSONIsError(t *testing.T) {
	interp := fakeInterpreter(t, `echo 'not json'`)
	b := New(interp, time.Second)

	_, err := b.Run(context.Background(), "/music/track.flac")
	assert.Error(t, err)
}

func TestBridgeRunTimesOut(t *testing.T) {
	interp := fakeInterpreter(t, `sleep 5`)
	b := New(interp, 50*time.Millisecond)

	_, err := b.Run(context.Background(), "/music/track.flac")
	assert.Error(t, err)
}
