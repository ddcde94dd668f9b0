// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package libaudit

import "strings"

// ParsedFilename is a best-effort decomposition of a track's filename
// stem into its track number, artist, and title components.
type ParsedFilename struct {
	TrackNum string
	Artist   string
	Title    string
}

// ParseFilename parses stem (the filename without its extension)
// according to the conventions appropriate to context.
func ParseFilename(stem string, context Context) ParsedFilename {
	if context == ContextAlbumTrack {
		return parseAlbumFilename(stem)
	}
	return parseLooseFilename(stem)
}

// parseAlbumFilename recognizes, in order: "D-NN Artist - Title" (disc
// prefix), "NN Artist - Title" (canonical), "NN - Title" / "NN. Title"
// (single-artist album alternates). Track numbers and separators are
// always ASCII, so a non-ASCII lead byte bails out to a title-only parse.
func parseAlbumFilename(stem string) ParsedFilename {
	if len(stem) < 3 {
		return ParsedFilename{}
	}
	if stem[0] >= 0x80 || stem[1] >= 0x80 {
		return ParsedFilename{Title: stem}
	}

	firstTwo := stem[:2]

	var trackNum, remainder string
	if len(stem) >= 5 && stem[1] == '-' && isDigit(stem[0]) && isDigit(stem[2]) && isDigit(stem[3]) {
		trackNum = stem[:4]
		remainder = strings.TrimLeft(stem[4:], " ")
	} else {
		trackNum, remainder = tryParseTrackNumber(firstTwo, stem)
	}

	if sepPos := strings.Index(remainder, " - "); sepPos >= 0 {
		artist := strings.TrimSpace(remainder[:sepPos])
		title := strings.TrimSpace(remainder[sepPos+3:])
		return ParsedFilename{TrackNum: trackNum, Artist: artist, Title: title}
	}
	if sepPos := strings.Index(remainder, ". "); sepPos >= 0 {
		title := strings.TrimSpace(remainder[sepPos+2:])
		return ParsedFilename{TrackNum: trackNum, Title: title}
	}
	return ParsedFilename{TrackNum: trackNum, Title: remainder}
}

func tryParseTrackNumber(firstTwo, stem string) (string, string) {
	if !isDigit(firstTwo[0]) || !isDigit(firstTwo[1]) {
		return "", stem
	}
	rest := stem[2:]
	switch {
	case strings.HasPrefix(rest, " - "):
		return firstTwo, rest[3:]
	case strings.HasPrefix(rest, " "):
		return firstTwo, rest[1:]
	case strings.HasPrefix(rest, "- "):
		return firstTwo, strings.TrimLeft(rest, "- ")
	case strings.HasPrefix(rest, ". ") || strings.HasPrefix(rest, "."):
		// Keep the dot+rest so the ". " branch above can split it.
		return firstTwo, rest
	default:
		return "", stem
	}
}

func parseLooseFilename(stem string) ParsedFilename {
	if sepPos := strings.Index(stem, " - "); sepPos >= 0 {
		artist := strings.TrimSpace(stem[:sepPos])
		title := strings.TrimSpace(stem[sepPos+3:])
		return ParsedFilename{Artist: artist, Title: title}
	}
	return ParsedFilename{Title: stem}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
