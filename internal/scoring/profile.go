// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package scoring

// Profile is the "Track profile" entity of spec.md §3: a derived, in-memory
// view built purely from cached data, never triggering a remote call.
type Profile struct {
	TrackID string

	Tempo float64 // canonical BPM

	Key      Camelot // zero value means "missing"
	HasKey   bool

	Energy float64 // canonical energy in [0,1]

	Centroid    float64 // spectral brightness (Hz); HasCentroid gates it
	HasCentroid bool

	Regularity    float64 // rhythmic regularity in [0,1]; HasRegularity gates it
	HasRegularity bool

	LoudnessRange float64 // dB; HasLoudnessRange gates it
	HasLoudnessRange bool

	Genre       string // canonical genre name, "" if unknown
	GenreFamily string // genre family tag, "" if unknown
}
