// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scoring implements the pure transition-scoring functions of
// spec.md §4.9: a six-axis score plus a weighted composite for a candidate
// transition between two track profiles.
package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// Camelot is a parsed Camelot-wheel position: a number in 1..=12 and a
// letter in {'A','B'}.
type Camelot struct {
	Number int
	Letter byte // 'A' or 'B'
}

// String formats the Camelot code, e.g. "8A".
func (c Camelot) String() string {
	return fmt.Sprintf("%d%c", c.Number, c.Letter)
}

// standardKeyToCamelot maps every standard key name (24 entries: 12
// chromatic pitches x {major, minor}) to its Camelot position.
var standardKeyToCamelot = map[string]Camelot{
	// Minor keys (A side)
	"Abm": {1, 'A'}, "G#m": {1, 'A'},
	"Ebm": {2, 'A'}, "D#m": {2, 'A'},
	"Bbm": {3, 'A'}, "A#m": {3, 'A'},
	"Fm": {4, 'A'},
	"Cm": {5, 'A'},
	"Gm": {6, 'A'},
	"Dm": {7, 'A'},
	"Am": {8, 'A'},
	"Em": {9, 'A'},
	"Bm": {10, 'A'},
	"F#m": {11, 'A'}, "Gbm": {11, 'A'},
	"Dbm": {12, 'A'}, "C#m": {12, 'A'},

	// Major keys (B side)
	"B": {1, 'B'},
	"F#": {2, 'B'}, "Gb": {2, 'B'},
	"Db": {3, 'B'}, "C#": {3, 'B'},
	"Ab": {4, 'B'}, "G#": {4, 'B'},
	"Eb": {5, 'B'}, "D#": {5, 'B'},
	"Bb": {6, 'B'}, "A#": {6, 'B'},
	"F":  {7, 'B'},
	"C":  {8, 'B'},
	"G":  {9, 'B'},
	"D":  {10, 'B'},
	"A":  {11, 'B'},
	"E":  {12, 'B'},
}

// StandardKeyToCamelot resolves a standard key name ("Am", "C", "F#m",
// "Bbm", ...) to its Camelot position. Returns false if the name is not one
// of the 24 recognized chromatic x mode entries.
func StandardKeyToCamelot(name string) (Camelot, bool) {
	name = normalizeKeyName(name)
	c, ok := standardKeyToCamelot[name]
	return c, ok
}

// normalizeKeyName trims whitespace and normalizes casing so that e.g.
// "am", "AM", " Am " all resolve the same way, while preserving the
// sharp/flat letter casing the lookup table expects.
func normalizeKeyName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	minor := strings.HasSuffix(strings.ToLower(name), "m") && !strings.EqualFold(name, "m")
	root := name
	if minor {
		root = name[:len(name)-1]
	}
	if len(root) == 0 {
		return name
	}
	normalizedRoot := strings.ToUpper(root[:1])
	if len(root) > 1 {
		normalizedRoot += strings.ToLower(root[1:])
	}
	if minor {
		return normalizedRoot + "m"
	}
	return normalizedRoot
}

// ParseCamelot parses a Camelot code such as "8a" or "12B", folding case and
// validating range. Parsing is idempotent: ParseCamelot(c.String()) == c.
func ParseCamelot(s string) (Camelot, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Camelot{}, false
	}
	letter := s[len(s)-1]
	switch letter {
	case 'a', 'A':
		letter = 'A'
	case 'b', 'B':
		letter = 'B'
	default:
		return Camelot{}, false
	}
	numStr := s[:len(s)-1]
	num, err := strconv.Atoi(numStr)
	if err != nil || num < 1 || num > 12 {
		return Camelot{}, false
	}
	return Camelot{Number: num, Letter: letter}, true
}

// FormatCamelot is the inverse of ParseCamelot: it produces the canonical
// two-or-three-character string form.
func FormatCamelot(c Camelot) string {
	return c.String()
}

// ParseKey accepts either a Camelot code or a standard key name and resolves
// it to a Camelot position. Both forms must resolve; this is the single
// entry point used everywhere a "key" string needs a Camelot position.
func ParseKey(s string) (Camelot, bool) {
	if c, ok := ParseCamelot(s); ok {
		return c, true
	}
	return StandardKeyToCamelot(s)
}
