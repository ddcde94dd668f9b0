// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package changemgr

import (
	"strconv"
	"strings"
	"sync"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
)

// StagedOverlay pairs a track identifier with its overlay, for bulk
// operations (Stage input, Take/Restore payloads).
type StagedOverlay struct {
	TrackID string
	Overlay Overlay
}

// Store is the process-wide staged-change overlay map. All methods are
// safe for concurrent use; a single RWMutex linearizes stage, clear, take,
// and restore against the same keys.
type Store struct {
	mu       sync.RWMutex
	overlays map[string]Overlay
}

// New creates an empty Store.
func New() *Store {
	return &Store{overlays: make(map[string]Overlay)}
}

// Stage merges each overlay into the store field-by-field (later
// non-absent value per field wins). Returns (accepted, pending).
func (s *Store) Stage(items []StagedOverlay) (accepted, pending int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		existing, ok := s.overlays[item.TrackID]
		if !ok {
			existing = Overlay{}
		}
		existing.merge(item.Overlay)
		s.overlays[item.TrackID] = existing
		accepted++
	}
	return accepted, len(s.overlays)
}

// Get returns a clone of one overlay, or false if none is staged.
func (s *Store) Get(trackID string) (Overlay, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.overlays[trackID]
	if !ok {
		return Overlay{}, false
	}
	return o.clone(), true
}

// PendingIDs returns a snapshot of all staged track identifiers.
func (s *Store) PendingIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.overlays))
	for id := range s.overlays {
		ids = append(ids, id)
	}
	return ids
}

// PreviewEntry is one track whose staged overlay differs from its current
// catalog value in at least one field.
type PreviewEntry struct {
	Track   catalog.Track
	Overlay Overlay
	Changed []string // field names that actually differ
}

// Preview returns only the tracks where at least one staged field differs
// from the current value. Numeric fields compare via string form; color
// compares case-insensitively.
func (s *Store) Preview(tracks []catalog.Track) []PreviewEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []PreviewEntry
	for _, t := range tracks {
		overlay, ok := s.overlays[t.ID]
		if !ok {
			continue
		}
		var changed []string
		if overlay.Genre != nil && *overlay.Genre != t.Genre {
			changed = append(changed, "genre")
		}
		if overlay.Comments != nil && *overlay.Comments != t.Comment {
			changed = append(changed, "comments")
		}
		if overlay.Rating != nil && strconv.Itoa(*overlay.Rating) != strconv.Itoa(t.Rating) {
			changed = append(changed, "rating")
		}
		if overlay.Color != nil && !strings.EqualFold(*overlay.Color, t.Color) {
			changed = append(changed, "color")
		}
		if len(changed) > 0 {
			out = append(out, PreviewEntry{Track: t, Overlay: overlay.clone(), Changed: changed})
		}
	}
	return out
}

// ClearFull removes entries keyed by ids, or every entry when ids is nil.
// Returns (cleared, remaining).
func (s *Store) ClearFull(ids []string) (cleared, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ids == nil {
		cleared = len(s.overlays)
		s.overlays = make(map[string]Overlay)
		return cleared, 0
	}

	for _, id := range ids {
		if _, ok := s.overlays[id]; ok {
			delete(s.overlays, id)
			cleared++
		}
	}
	return cleared, len(s.overlays)
}

// ClearFields removes the named fields from each targeted entry; an entry
// whose fields all become absent is removed entirely. Returns (affected,
// remaining).
func (s *Store) ClearFields(ids []string, fields []string) (affected, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fieldSet := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		fieldSet[f] = struct{}{}
	}

	for _, id := range ids {
		o, ok := s.overlays[id]
		if !ok {
			continue
		}
		if _, ok := fieldSet["genre"]; ok {
			o.Genre = nil
		}
		if _, ok := fieldSet["comments"]; ok {
			o.Comments = nil
		}
		if _, ok := fieldSet["rating"]; ok {
			o.Rating = nil
		}
		if _, ok := fieldSet["color"]; ok {
			o.Color = nil
		}

		if o.isEmpty() {
			delete(s.overlays, id)
		} else {
			s.overlays[id] = o
		}
		affected++
	}
	return affected, len(s.overlays)
}

// Take atomically drains and returns the overlays matching filterIDs (or
// every overlay when filterIDs is nil).
func (s *Store) Take(filterIDs []string) []StagedOverlay {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []StagedOverlay
	if filterIDs == nil {
		for id, o := range s.overlays {
			out = append(out, StagedOverlay{TrackID: id, Overlay: o})
		}
		s.overlays = make(map[string]Overlay)
		return out
	}

	for _, id := range filterIDs {
		if o, ok := s.overlays[id]; ok {
			out = append(out, StagedOverlay{TrackID: id, Overlay: o})
			delete(s.overlays, id)
		}
	}
	return out
}

// Restore re-inserts previously taken overlays, merging into whatever is
// currently staged for that key. Used for rollback on export failure.
func (s *Store) Restore(items []StagedOverlay) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		existing, ok := s.overlays[item.TrackID]
		if !ok {
			existing = Overlay{}
		}
		existing.merge(item.Overlay)
		s.overlays[item.TrackID] = existing
	}
}

// ApplySnapshot is a pure function: given ordered Track records and a
// snapshot of overlays (as produced by Take), it returns modified Track
// records with staged fields applied. It does not touch the Store.
func ApplySnapshot(tracks []catalog.Track, snapshot []StagedOverlay) []catalog.Track {
	byID := make(map[string]Overlay, len(snapshot))
	for _, item := range snapshot {
		byID[item.TrackID] = item.Overlay
	}

	out := make([]catalog.Track, len(tracks))
	for i, t := range tracks {
		overlay, ok := byID[t.ID]
		if !ok {
			out[i] = t
			continue
		}
		if overlay.Genre != nil {
			t.Genre = *overlay.Genre
		}
		if overlay.Comments != nil {
			t.Comment = *overlay.Comments
		}
		if overlay.Rating != nil {
			t.Rating = *overlay.Rating
		}
		if overlay.Color != nil {
			t.Color = *overlay.Color
		}
		out[i] = t
	}
	return out
}
