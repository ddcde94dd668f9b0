// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package tagio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dhowden/tag"
)

// riffInfoChunkKeys maps a RIFF LIST/INFO subchunk ID to its canonical
// field name.
var riffInfoChunkKeys = map[string]string{
	"IART": FieldArtist,
	"INAM": FieldTitle,
	"IPRD": FieldAlbum,
	"ICRD": FieldYear,
	"IGNR": FieldGenre,
	"ICMT": FieldComment,
}

// readWAV parses a WAV file's two independent tag layers: an optional
// embedded ID3v2 chunk ("id3 "/"ID3 ") and the format's native RIFF
// LIST/INFO chunk. Either, both, or neither may be present.
func readWAV(path string, f *os.File) ReadResult {
	data, err := readAllFrom(f)
	if err != nil {
		return ReadResult{Path: path, Err: fmt.Errorf("tagio: read wav: %w", err)}
	}
	if len(data) < 12 {
		return ReadResult{Path: path, Err: fmt.Errorf("tagio: truncated RIFF header")}
	}

	riffRaw := make(map[string]string)
	var id3Payload []byte

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		bodyStart := pos + 8
		bodyEnd := bodyStart + size
		if size < 0 || bodyEnd > len(data) {
			break
		}
		body := data[bodyStart:bodyEnd]

		switch chunkID {
		case "LIST":
			if len(body) >= 4 && string(body[0:4]) == "INFO" {
				parseRIFFInfoList(body[4:], riffRaw)
			}
		case "id3 ", "ID3 ":
			id3Payload = body
		}

		pos = bodyEnd
		if size%2 == 1 {
			pos++ // chunks are word-aligned; odd-sized bodies carry a pad byte
		}
	}

	id3v2 := blankFields()
	tagType := "none"
	if len(id3Payload) > 0 {
		if meta, err := tag.ReadID3v2Tags(bytes.NewReader(id3Payload)); err == nil {
			id3v2 = tagsFromMetadata(meta)
			tagType = string(meta.Format())
		}
	}

	riffInfo := blankFields()
	for _, field := range riffInfoFieldOrder {
		if v, ok := riffRaw[field]; ok {
			riffInfo[field] = v
		}
	}

	var tag3Missing []string
	for _, field := range riffInfoFieldOrder {
		if id3v2[field] != "" && riffInfo[field] == "" {
			tag3Missing = append(tag3Missing, field)
		}
	}
	sort.Strings(tag3Missing)

	return ReadResult{
		Path:        path,
		Format:      "wav",
		IsWAV:       true,
		TagType:     tagType,
		ID3v2:       id3v2,
		RIFFInfo:    riffInfo,
		Tag3Missing: tag3Missing,
	}
}

func parseRIFFInfoList(data []byte, out map[string]string) {
	pos := 0
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		bodyStart := pos + 8
		bodyEnd := bodyStart + size
		if size < 0 || bodyEnd > len(data) {
			break
		}
		if field, ok := riffInfoChunkKeys[id]; ok {
			out[field] = strings.TrimRight(string(data[bodyStart:bodyEnd]), "\x00")
		}
		pos = bodyEnd
		if size%2 == 1 {
			pos++
		}
	}
}

func readAllFrom(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	_, err = f.ReadAt(buf, 0)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return buf, err
}
