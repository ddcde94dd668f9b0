// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tagio reads audio-file metadata tags across the
// library's supported formats. Single-tag-layer formats (MP3, FLAC, OGG,
// M4A) read through github.com/dhowden/tag; WAV is dual-layered (an
// optional embedded ID3v2 chunk alongside the format's native RIFF INFO
// list) and has no ready-made Go library, so its RIFF container is parsed
// by hand here, with the embedded ID3v2 payload itself still handed off
// to dhowden/tag.
package tagio

// Canonical field names, in a stable order. Audio metadata surfaces vary
// wildly across formats; these are the fields the library's audit and
// resolver paths actually consume.
const (
	FieldArtist      = "artist"
	FieldTitle       = "title"
	FieldAlbum       = "album"
	FieldAlbumArtist = "album_artist"
	FieldGenre       = "genre"
	FieldYear        = "year"
	FieldDate        = "date"
	FieldTrack       = "track"
	FieldDisc        = "disc"
	FieldComment     = "comment"
	FieldPublisher   = "publisher"
	FieldBPM         = "bpm"
	FieldKey         = "key"
	FieldComposer    = "composer"
	FieldRemixer     = "remixer"
)

// AllFields lists every canonical field, in the order above.
var AllFields = []string{
	FieldArtist, FieldTitle, FieldAlbum, FieldAlbumArtist, FieldGenre,
	FieldYear, FieldDate, FieldTrack, FieldDisc, FieldComment, FieldPublisher,
	FieldBPM, FieldKey, FieldComposer, FieldRemixer,
}

// riffInfoFieldOrder lists the fields RIFF INFO chunks support, in the
// order WAV dual-layer drift checks compare them. Every other field is
// always empty in a RIFF INFO view.
var riffInfoFieldOrder = []string{
	FieldArtist, FieldTitle, FieldAlbum, FieldGenre, FieldYear, FieldComment,
}

// IsRIFFInfoField reports whether field has a RIFF INFO counterpart.
func IsRIFFInfoField(field string) bool {
	for _, f := range riffInfoFieldOrder {
		if f == field {
			return true
		}
	}
	return false
}

// AudioExtensions are the file extensions a scan treats as audio. Formats
// lofty could read that dhowden/tag or this package's WAV parser cannot
// decode (APE, Opus, Speex, WavPack, Musepack) are intentionally excluded.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".m4a":  true,
	".mp4":  true,
	".wav":  true,
	".aiff": true,
	".aif":  true,
}

func blankFields() map[string]string {
	out := make(map[string]string, len(AllFields))
	for _, f := range AllFields {
		out[f] = ""
	}
	return out
}
