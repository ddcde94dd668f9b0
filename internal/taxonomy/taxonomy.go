// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package taxonomy holds the canonical genre set and its alias map (spec.md
// §4.4). It is pure data plus pure lookups — no I/O, no mutable state.
package taxonomy

import (
	"sort"
	"strings"
)

// Family is one of the five scoring-friendly genre families.
type Family string

const (
	FamilyHouse     Family = "House"
	FamilyTechno    Family = "Techno"
	FamilyBass      Family = "Bass"
	FamilyDowntempo Family = "Downtempo"
	FamilyOther     Family = "Other"
)

// canonicalFamilies maps every canonical genre name to its family. The
// family set itself is the closed {House, Techno, Bass, Downtempo, Other}.
var canonicalFamilies = map[string]Family{
	"House":            FamilyHouse,
	"Deep House":       FamilyHouse,
	"Tech House":       FamilyHouse,
	"Progressive House": FamilyHouse,
	"Techno":           FamilyTechno,
	"Melodic Techno":   FamilyTechno,
	"Hard Techno":      FamilyTechno,
	"Bass":             FamilyBass,
	"Dubstep":          FamilyBass,
	"Drum & Bass":      FamilyBass,
	"UK Garage":        FamilyBass,
	"Downtempo":        FamilyDowntempo,
	"Ambient":          FamilyDowntempo,
	"Trip Hop":         FamilyDowntempo,
	"Other":            FamilyOther,
	"Disco":            FamilyOther,
	"Funk":             FamilyOther,
	"Electro":          FamilyOther,
}

// alias maps a case-folded alias to its canonical target. Keys are stored
// lower-cased; lookups must fold the query the same way.
var alias = map[string]string{
	"deephouse":     "Deep House",
	"deep-house":    "Deep House",
	"techhouse":     "Tech House",
	"tech-house":    "Tech House",
	"prog house":    "Progressive House",
	"prog-house":    "Progressive House",
	"dnb":           "Drum & Bass",
	"drum and bass": "Drum & Bass",
	"d&b":           "Drum & Bass",
	"dub step":      "Dubstep",
	"ukg":           "UK Garage",
	"uk-garage":     "UK Garage",
	"triphop":       "Trip Hop",
	"trip-hop":      "Trip Hop",
	"electronica":   "Downtempo",
}

// canonicalLower indexes canonical names by their lower-cased form, for
// case-insensitive exact matching.
var canonicalLower = buildCanonicalLower()

func buildCanonicalLower() map[string]string {
	out := make(map[string]string, len(canonicalFamilies))
	for name := range canonicalFamilies {
		out[strings.ToLower(name)] = name
	}
	return out
}

// CanonicalCasing returns the canonical spelling when s matches a canonical
// genre name modulo case, or "" if s is not a canonical name.
func CanonicalCasing(s string) string {
	if name, ok := canonicalLower[strings.ToLower(strings.TrimSpace(s))]; ok {
		return name
	}
	return ""
}

// Normalize returns the canonical genre that s's alias maps to, or "" if s
// is not a known alias.
func Normalize(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := alias[key]; ok {
		return canonical
	}
	return ""
}

// IsKnown reports whether s resolves via CanonicalCasing or Normalize.
func IsKnown(s string) bool {
	return CanonicalCasing(s) != "" || Normalize(s) != ""
}

// FamilyOf returns the genre family for a canonical genre name, or
// the empty Family and false if name is not canonical.
func FamilyOf(name string) (Family, bool) {
	family, ok := canonicalFamilies[name]
	return family, ok
}

// CanonicalEntry pairs a canonical genre name with its scoring family.
type CanonicalEntry struct {
	Genre  string
	Family Family
}

// AllCanonical returns every canonical genre name and its family, sorted
// by name, for tools that expose the configured taxonomy verbatim
// (spec.md §4.4, §6: "get_genre_taxonomy").
func AllCanonical() []CanonicalEntry {
	out := make([]CanonicalEntry, 0, len(canonicalFamilies))
	for name, family := range canonicalFamilies {
		out = append(out, CanonicalEntry{Genre: name, Family: family})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Genre < out[j].Genre })
	return out
}

// Canonicalize resolves s to its canonical form via exact match first, then
// alias, returning "" if neither succeeds — the single entry point the
// resolver and scoring engine use.
func Canonicalize(s string) string {
	if exact := CanonicalCasing(s); exact != "" {
		return exact
	}
	return Normalize(s)
}
