// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package tagio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(id string, body []byte) []byte {
	out := make([]byte, 8+len(body))
	copy(out[0:4], id)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(body)))
	copy(out[8:], body)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func infoSubchunk(id, value string) []byte {
	return chunk(id, append([]byte(value), 0))
}

func buildWAV(listBody []byte) []byte {
	var chunks []byte
	if listBody != nil {
		chunks = append(chunks, chunk("LIST", listBody)...)
	}
	// Minimal fmt chunk so the container looks plausible.
	chunks = append(chunks, chunk("fmt ", make([]byte, 16))...)

	riffSize := 4 + len(chunks) // "WAVE" + chunks
	out := make([]byte, 8)
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(riffSize))
	out = append(out, []byte("WAVE")...)
	out = append(out, chunks...)
	return out
}

func writeTempWAV(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.wav")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadWAVParsesRIFFInfoList(t *testing.T) {
	var info []byte
	info = append(info, []byte("INFO")...)
	info = append(info, infoSubchunk("IART", "Artist Name")...)
	info = append(info, infoSubchunk("INAM", "Track Title")...)

	path := writeTempWAV(t, buildWAV(info))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	result := readWAV(path, f)
	require.NoError(t, result.Err)
	assert.True(t, result.IsWAV)
	assert.Equal(t, "Artist Name", result.RIFFInfo[FieldArtist])
	assert.Equal(t, "Track Title", result.RIFFInfo[FieldTitle])
	assert.Empty(t, result.RIFFInfo[FieldAlbum])
}

func TestReadWAVNoListChunkLeavesRIFFInfoBlank(t *testing.T) {
	path := writeTempWAV(t, buildWAV(nil))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	result := readWAV(path, f)
	require.NoError(t, result.Err)
	for _, field := range AllFields {
		assert.Empty(t, result.RIFFInfo[field])
		assert.Empty(t, result.ID3v2[field])
	}
	assert.Empty(t, result.Tag3Missing)
}

func TestIsRIFFInfoField(t *testing.T) {
	assert.True(t, IsRIFFInfoField(FieldArtist))
	assert.True(t, IsRIFFInfoField(FieldComment))
	assert.False(t, IsRIFFInfoField(FieldBPM))
	assert.False(t, IsRIFFInfoField(FieldComposer))
}
