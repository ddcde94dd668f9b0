// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package changemgr implements the Change Manager (spec.md §4.3): a
// process-wide, thread-safe mapping from track identifier to staged-change
// overlay, with linearizable stage/clear/take/restore semantics.
package changemgr

import "strings"

// Overlay is a partial field-level edit staged against one track. Absent
// fields are nil; present fields win over the current catalog value when
// the track is exported or previewed.
type Overlay struct {
	Genre    *string
	Comments *string
	Rating   *int
	Color    *string
}

// merge applies src on top of dst, field by field: a present src field
// always wins (later-stage-wins semantics).
func (dst *Overlay) merge(src Overlay) {
	if src.Genre != nil {
		dst.Genre = src.Genre
	}
	if src.Comments != nil {
		dst.Comments = src.Comments
	}
	if src.Rating != nil {
		dst.Rating = src.Rating
	}
	if src.Color != nil {
		dst.Color = src.Color
	}
}

func (o Overlay) isEmpty() bool {
	return o.Genre == nil && o.Comments == nil && o.Rating == nil && o.Color == nil
}

func (o Overlay) clone() Overlay {
	out := Overlay{}
	if o.Genre != nil {
		v := *o.Genre
		out.Genre = &v
	}
	if o.Comments != nil {
		v := *o.Comments
		out.Comments = &v
	}
	if o.Rating != nil {
		v := *o.Rating
		out.Rating = &v
	}
	if o.Color != nil {
		v := *o.Color
		out.Color = &v
	}
	return out
}

// canonicalColor case-folds a color name to its canonical lower-case form.
func canonicalColor(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
