// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package audiodecoder

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeFloat32LE(values ...float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func TestReadFloat32LE(t *testing.T) {
	data := encodeFloat32LE(0.1, -0.5, 1.0)
	samples, err := readFloat32LE(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.InDelta(t, 0.1, samples[0], 0.0001)
	assert.InDelta(t, -0.5, samples[1], 0.0001)
	assert.InDelta(t, 1.0, samples[2], 0.0001)
}

func TestReadFloat32LETruncatedTrailerIsCleanEOF(t *testing.T) {
	data := append(encodeFloat32LE(0.2), 0x01, 0x02) // 2 trailing bytes, not a full frame
	samples, err := readFloat32LE(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.InDelta(t, 0.2, samples[0], 0.0001)
}

func TestReadFloat32LEEmpty(t *testing.T) {
	samples, err := readFloat32LE(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, samples)
}
