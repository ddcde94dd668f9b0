// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package libaudit

import (
	"path/filepath"
	"strconv"
	"strings"
)

func isDiscSubdir(name string) bool {
	return strings.HasPrefix(name, "CD") || strings.HasPrefix(name, "Disc") || strings.HasPrefix(name, "disc")
}

// techSpecPatterns are lowercase tech-spec markers stripped from directory
// names before matching; matching itself is always case-insensitive.
var techSpecPatterns = []string{
	"[flac]", "[wav]", "[mp3]", "[aiff]", "[aac]",
	"24-96", "24-48", "24-44", "16-44", "16-48",
	"24bit", "16bit",
}

// normalizeDirName strips tech-spec brackets/bitrate markers from a
// directory name for pattern matching. Matching is case-insensitive but
// surviving text keeps its original casing.
func normalizeDirName(name string) string {
	result := name
	for _, pat := range techSpecPatterns {
		for {
			lower := strings.ToLower(result)
			pos := strings.Index(lower, pat)
			if pos < 0 {
				break
			}
			result = result[:pos] + result[pos+len(pat):]
		}
	}
	for strings.Contains(result, "  ") {
		result = strings.ReplaceAll(result, "  ", " ")
	}
	return strings.TrimSpace(result)
}

// hasYearSuffix reports whether name ends with a four-digit year in
// parentheses, e.g. "Album Name (2024)".
func hasYearSuffix(name string) bool {
	trimmed := strings.TrimRight(name, " \t\n\r")
	if len(trimmed) < 6 {
		return false
	}
	if trimmed[len(trimmed)-1] != ')' {
		return false
	}
	open := strings.LastIndex(trimmed, "(")
	if open < 0 {
		return false
	}
	inside := trimmed[open+1 : len(trimmed)-1]
	if len(inside) != 4 {
		return false
	}
	_, err := strconv.ParseUint(inside, 10, 16)
	return err == nil
}

// ClassifyTrackContext decides whether path sits inside a dated album
// directory (possibly via a disc subdirectory like "CD1"/"Disc 1") or is a
// loose track. A directory literally named "play" is always loose.
func ClassifyTrackContext(path string) Context {
	parent := filepath.Dir(path)
	dirName := filepath.Base(parent)
	if dirName == "" || dirName == "." || dirName == string(filepath.Separator) {
		return ContextLooseTrack
	}

	effectiveDirName := dirName
	if isDiscSubdir(dirName) {
		grandparent := filepath.Dir(parent)
		albumDirName := filepath.Base(grandparent)
		if albumDirName == "" || albumDirName == "." || albumDirName == string(filepath.Separator) {
			return ContextLooseTrack
		}
		effectiveDirName = albumDirName
	}

	lower := strings.ToLower(effectiveDirName)
	if lower == "play" || strings.HasPrefix(lower, "play/") {
		return ContextLooseTrack
	}

	if hasYearSuffix(normalizeDirName(effectiveDirName)) {
		return ContextAlbumTrack
	}
	return ContextLooseTrack
}

// effectiveAlbumDirName returns the album directory name for path,
// climbing past a disc subdirectory if present.
func effectiveAlbumDirName(path string) (string, bool) {
	parent := filepath.Dir(path)
	dirName := filepath.Base(parent)
	if dirName == "" || dirName == "." || dirName == string(filepath.Separator) {
		return "", false
	}
	if isDiscSubdir(dirName) {
		albumDir := filepath.Dir(parent)
		albumName := filepath.Base(albumDir)
		if albumName == "" || albumName == "." || albumName == string(filepath.Separator) {
			return "", false
		}
		return albumName, true
	}
	return dirName, true
}
