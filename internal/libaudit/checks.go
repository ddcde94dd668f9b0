// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package libaudit

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ryanv/reklawdbox-go/internal/tagio"
)

var casefoldCaser = cases.Fold()

func casefold(s string) string { return casefoldCaser.String(s) }

// wavDriftFields lists the fields compared between a WAV's ID3v2 and RIFF
// INFO layers; order matches the RIFF INFO field set.
var wavDriftFields = []string{
	tagio.FieldArtist, tagio.FieldTitle, tagio.FieldAlbum,
	tagio.FieldGenre, tagio.FieldYear, tagio.FieldComment,
}

func tagIsEmpty(r tagio.ReadResult, field string) bool {
	return strings.TrimSpace(r.Value(field)) == ""
}

func allTagsEmpty(r tagio.ReadResult) bool {
	for _, f := range tagio.AllFields {
		if !tagIsEmpty(r, f) {
			return false
		}
	}
	return true
}

// allIndexes returns the starting offsets of every non-overlapping
// occurrence of sep in s.
func allIndexes(s, sep string) []int {
	var out []int
	start := 0
	for {
		idx := strings.Index(s[start:], sep)
		if idx < 0 {
			return out
		}
		out = append(out, start+idx)
		start += idx + len(sep)
	}
}

// checkTags runs every tag-derived convention check for one file.
// NO_TAGS short-circuits the rest: once every field reads blank there's
// nothing further to say about this file's tags.
func checkTags(read tagio.ReadResult, context Context, skip map[IssueType]bool) []DetectedIssue {
	var issues []DetectedIssue

	if !skip[NoTags] && allTagsEmpty(read) {
		return append(issues, DetectedIssue{Type: NoTags})
	}

	if !skip[EmptyArtist] && tagIsEmpty(read, tagio.FieldArtist) {
		issues = append(issues, DetectedIssue{Type: EmptyArtist})
	}
	if !skip[EmptyTitle] && tagIsEmpty(read, tagio.FieldTitle) {
		issues = append(issues, DetectedIssue{Type: EmptyTitle})
	}

	if context == ContextAlbumTrack {
		if !skip[MissingTrackNum] && tagIsEmpty(read, tagio.FieldTrack) {
			issues = append(issues, DetectedIssue{Type: MissingTrackNum})
		}
		if !skip[MissingAlbum] && tagIsEmpty(read, tagio.FieldAlbum) {
			issues = append(issues, DetectedIssue{Type: MissingAlbum})
		}
		if !skip[MissingYear] && tagIsEmpty(read, tagio.FieldYear) && tagIsEmpty(read, tagio.FieldDate) {
			issues = append(issues, DetectedIssue{Type: MissingYear})
		}
	}

	if !skip[ArtistInTitle] {
		artist := strings.TrimSpace(read.Value(tagio.FieldArtist))
		title := read.Value(tagio.FieldTitle)
		if artist != "" && title != "" {
			artistFolded := casefold(artist)
			for _, sepPos := range allIndexes(title, " - ") {
				if casefold(title[:sepPos]) == artistFolded {
					issues = append(issues, DetectedIssue{
						Type: ArtistInTitle,
						Detail: map[string]any{
							"artist":    artist,
							"old_title": title,
							"new_title": title[sepPos+3:],
						},
					})
					break
				}
			}
		}
	}

	if read.IsWAV {
		if !skip[WavTag3Missing] && len(read.Tag3Missing) > 0 {
			issues = append(issues, DetectedIssue{
				Type:   WavTag3Missing,
				Detail: map[string]any{"fields": read.Tag3Missing},
			})
		}

		if !skip[WavTagDrift] {
			var drifted []map[string]any
			for _, field := range wavDriftFields {
				v2, ri := read.ID3v2[field], read.RIFFInfo[field]
				if v2 == "" || ri == "" {
					continue
				}
				v2Trim, riTrim := strings.TrimSpace(v2), strings.TrimSpace(ri)
				if v2Trim != riTrim {
					drifted = append(drifted, map[string]any{
						"field": field, "id3v2": v2Trim, "riff_info": riTrim,
					})
				}
			}
			if len(drifted) > 0 {
				issues = append(issues, DetectedIssue{
					Type:   WavTagDrift,
					Detail: map[string]any{"drifted": drifted},
				})
			}
		}
	}

	if !skip[GenreSet] && !tagIsEmpty(read, tagio.FieldGenre) {
		issues = append(issues, DetectedIssue{
			Type:   GenreSet,
			Detail: map[string]any{"genre": read.Value(tagio.FieldGenre)},
		})
	}

	return issues
}

// checkFilename runs every filename/directory-derived convention check.
func checkFilename(path string, read tagio.ReadResult, context Context, skip map[IssueType]bool) []DetectedIssue {
	var issues []DetectedIssue

	filename := filepath.Base(path)

	if !skip[OriginalMixSuffix] && strings.Contains(filename, "(Original Mix)") {
		newName := strings.ReplaceAll(filename, " (Original Mix)", "")
		newName = strings.ReplaceAll(newName, "(Original Mix)", "")
		issues = append(issues, DetectedIssue{
			Type: OriginalMixSuffix,
			Detail: map[string]any{
				"old_filename": filename,
				"new_filename": strings.TrimSpace(newName),
			},
		})
	}

	if !skip[TechSpecsInDir] {
		if dirName, ok := effectiveAlbumDirName(path); ok {
			dirLower := strings.ToLower(dirName)
			hasTechSpecs := false
			for _, pat := range techSpecPatterns {
				if strings.Contains(dirLower, pat) {
					hasTechSpecs = true
					break
				}
			}
			if hasTechSpecs {
				issues = append(issues, DetectedIssue{
					Type: TechSpecsInDir,
					Detail: map[string]any{
						"old_dir": dirName,
						"new_dir": normalizeDirName(dirName),
					},
				})
			}
		}
	}

	if !skip[MissingYearInDir] && context == ContextAlbumTrack {
		if dirName, ok := effectiveAlbumDirName(path); ok {
			if !hasYearSuffix(dirName) && !hasYearSuffix(normalizeDirName(dirName)) {
				issues = append(issues, DetectedIssue{
					Type:   MissingYearInDir,
					Detail: map[string]any{"dir": dirName},
				})
			}
		}
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	parsed := ParseFilename(stem, context)

	if !skip[BadFilename] {
		var isCanonical, isAcceptableAlternate bool
		switch context {
		case ContextAlbumTrack:
			isCanonical = parsed.TrackNum != "" && parsed.Artist != "" && parsed.Title != ""
			isAcceptableAlternate = parsed.TrackNum != "" && parsed.Title != ""
		default:
			isCanonical = parsed.Artist != "" && parsed.Title != ""
		}
		if !isCanonical && !isAcceptableAlternate {
			issues = append(issues, DetectedIssue{
				Type: BadFilename,
				Detail: map[string]any{
					"filename": filename,
					"parsed": map[string]any{
						"track_num": parsed.TrackNum,
						"artist":    parsed.Artist,
						"title":     parsed.Title,
					},
				},
			})
		}
	}

	if !skip[FilenameTagDrift] && read.Err == nil {
		tagArtist := read.Value(tagio.FieldArtist)
		tagTitle := read.Value(tagio.FieldTitle)

		var drifts []map[string]any

		if parsed.Artist != "" && tagArtist != "" {
			fnA := casefold(strings.TrimSpace(parsed.Artist))
			tA := casefold(strings.TrimSpace(tagArtist))
			if fnA != "" && tA != "" && fnA != tA {
				drifts = append(drifts, map[string]any{
					"field": "artist", "filename": parsed.Artist, "tag": tagArtist,
				})
			}
		}

		if parsed.Title != "" && tagTitle != "" {
			fnTClean := strings.ReplaceAll(parsed.Title, " (Original Mix)", "")
			fnT := casefold(strings.TrimSpace(fnTClean))
			tT := casefold(strings.TrimSpace(tagTitle))
			if fnT != "" && tT != "" && fnT != tT {
				drifts = append(drifts, map[string]any{
					"field": "title", "filename": parsed.Title, "tag": tagTitle,
				})
			}
		}

		if len(drifts) > 0 {
			issues = append(issues, DetectedIssue{
				Type:   FilenameTagDrift,
				Detail: map[string]any{"drifts": drifts},
			})
		}
	}

	return issues
}
