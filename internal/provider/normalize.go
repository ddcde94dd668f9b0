// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the two external music-metadata provider
// clients (spec.md §4.8): a device-code-authenticated broker client with
// a legacy OAuth-1 fallback, and an unauthenticated HTML-scraping client.
package provider

import (
	"strings"
	"unicode"
)

// Cache/config provider names, used as the enrichment cache key's provider
// segment (spec.md §4.8) and in resolver genre-taxonomy mapping.
const (
	NameDiscogs  = "discogs"
	NameBeatport = "beatport"
)

// Normalize is the shared cache-key normalizer used by both providers:
// lowercase, keep alphanumerics and spaces, trim (spec.md §4.8.4).
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
