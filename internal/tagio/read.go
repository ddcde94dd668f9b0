// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package tagio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// ReadFile reads one audio file's tags, dispatching to the WAV dual-layer
// path when the container is RIFF/WAVE and to dhowden/tag otherwise.
func ReadFile(path string) ReadResult {
	f, err := os.Open(path)
	if err != nil {
		return ReadResult{Path: path, Err: err}
	}
	defer f.Close()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return ReadResult{Path: path, Err: fmt.Errorf("tagio: read header: %w", err)}
	}

	if string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE" {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return ReadResult{Path: path, Err: err}
		}
		return readWAV(path, f)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ReadResult{Path: path, Err: err}
	}
	return readSingle(path, f)
}

func readSingle(path string, f *os.File) ReadResult {
	meta, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return ReadResult{
				Path:    path,
				Format:  strings.ToLower(string(fileExt(path))),
				TagType: "none",
				Tags:    blankFields(),
			}
		}
		return ReadResult{Path: path, Err: fmt.Errorf("tagio: read tags: %w", err)}
	}

	return ReadResult{
		Path:    path,
		Format:  string(meta.FileType()),
		TagType: string(meta.Format()),
		Tags:    tagsFromMetadata(meta),
	}
}

func fileExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}
	return ""
}

// tagsFromMetadata maps dhowden/tag's Metadata surface onto the canonical
// field set. Fields the interface doesn't expose directly (publisher, bpm,
// key, remixer) fall back to the format's raw frame/atom map on a
// best-effort basis; formats that don't carry them read as empty.
func tagsFromMetadata(m tag.Metadata) map[string]string {
	out := blankFields()
	out[FieldArtist] = m.Artist()
	out[FieldTitle] = m.Title()
	out[FieldAlbum] = m.Album()
	out[FieldAlbumArtist] = m.AlbumArtist()
	out[FieldGenre] = m.Genre()
	out[FieldComment] = m.Comment()
	out[FieldComposer] = m.Composer()

	if y := m.Year(); y != 0 {
		out[FieldYear] = strconv.Itoa(y)
	}
	if track, _ := m.Track(); track != 0 {
		out[FieldTrack] = strconv.Itoa(track)
	}
	if disc, _ := m.Disc(); disc != 0 {
		out[FieldDisc] = strconv.Itoa(disc)
	}

	raw := m.Raw()
	out[FieldPublisher] = rawString(raw, "TPUB", "publisher", "©pub")
	out[FieldBPM] = rawString(raw, "TBPM", "bpm", "tmpo")
	out[FieldKey] = rawString(raw, "TKEY", "initialkey", "key")
	out[FieldRemixer] = rawString(raw, "TPE4", "remixer")

	// "date" is a distinct tag slot from "year" (ID3v2.4's TDRC carries a
	// full date separate from TYER/the Year() accessor; Vorbis comments and
	// M4A atoms use their own "date"/"©day" keys). A track can carry one
	// without the other.
	out[FieldDate] = rawString(raw, "TDRC", "date", "©day")
	return out
}

func rawString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case fmt.Stringer:
			if s := t.String(); s != "" {
				return s
			}
		}
	}
	return ""
}
