// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/xml"
	"fmt"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
)

// document mirrors the top-level shape of a Rekordbox collection XML file.
// No pack library models this schema, so it's built directly on the
// standard library's encoding/xml rather than a third-party writer.
type document struct {
	XMLName    xml.Name   `xml:"DJ_PLAYLISTS"`
	Version    string     `xml:"Version,attr"`
	Product    product    `xml:"PRODUCT"`
	Collection collection `xml:"COLLECTION"`
	Playlists  playlists  `xml:"PLAYLISTS"`
}

type product struct {
	Name    string `xml:"Name,attr"`
	Version string `xml:"Version,attr"`
	Company string `xml:"Company,attr"`
}

type collection struct {
	Entries int     `xml:"Entries,attr"`
	Tracks  []track `xml:"TRACK"`
}

type track struct {
	TrackID     string  `xml:"TrackID,attr"`
	Name        string  `xml:"Name,attr"`
	Artist      string  `xml:"Artist,attr"`
	Album       string  `xml:"Album,attr,omitempty"`
	Genre       string  `xml:"Genre,attr,omitempty"`
	Remixer     string  `xml:"Remixer,attr,omitempty"`
	Label       string  `xml:"Label,attr,omitempty"`
	Tonality    string  `xml:"Tonality,attr,omitempty"`
	AverageBpm  float64 `xml:"AverageBpm,attr,omitempty"`
	Rating      int     `xml:"Rating,attr"`
	Comments    string  `xml:"Comments,attr,omitempty"`
	Colour      string  `xml:"Colour,attr,omitempty"`
	Year        int     `xml:"Year,attr,omitempty"`
	TotalTime   int     `xml:"TotalTime,attr,omitempty"`
	PlayCount   int     `xml:"PlayCount,attr,omitempty"`
	DateAdded   string  `xml:"DateAdded,attr,omitempty"`
	Location    string  `xml:"Location,attr"`
}

type playlists struct {
	Root node `xml:"NODE"`
}

type node struct {
	Type    string  `xml:"Type,attr"`
	Name    string  `xml:"Name,attr"`
	Count   int     `xml:"Count,attr,omitempty"`
	Nodes   []node  `xml:"NODE,omitempty"`
	Entries int     `xml:"Entries,attr,omitempty"`
	Tracks  []nkey  `xml:"TRACK,omitempty"`
}

type nkey struct {
	Key string `xml:"Key,attr"`
}

// nodeTypeFolder and nodeTypePlaylist are Rekordbox's NODE Type values.
const (
	nodeTypeFolder   = "0"
	nodeTypePlaylist = "1"
)

// rekordboxRating converts a 0-5 star rating to Rekordbox's 0-255 attribute
// scale (51 per star, matching the real application's encoding).
func rekordboxRating(rating int) int {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return rating * 51
}

func buildTrack(t catalog.Track) track {
	return track{
		TrackID:    t.ID,
		Name:       t.Title,
		Artist:     t.Artist,
		Album:      t.Album,
		Genre:      t.Genre,
		Remixer:    t.Remixer,
		Label:      t.Label,
		Tonality:   t.Key,
		AverageBpm: t.Tempo,
		Rating:     rekordboxRating(t.Rating),
		Comments:   t.Comment,
		Colour:     t.Color,
		Year:       t.Year,
		TotalTime:  t.LengthSecs,
		PlayCount:  t.PlayCount,
		DateAdded:  t.AddedAt.Format("2006-01-02"),
		Location:   toFileURI(t.Path),
	}
}

// buildDocument assembles the full XML document from an already-resolved
// track set and playlist definitions. It fails if any playlist names a
// track ID outside tracks.
func buildDocument(tracks []catalog.Track, playlistDefs []PlaylistDefinition) (document, error) {
	known := make(map[string]struct{}, len(tracks))
	xmlTracks := make([]track, len(tracks))
	for i, t := range tracks {
		known[t.ID] = struct{}{}
		xmlTracks[i] = buildTrack(t)
	}

	playlistNodes := make([]node, len(playlistDefs))
	for i, pl := range playlistDefs {
		keys := make([]nkey, len(pl.TrackIDs))
		for j, id := range pl.TrackIDs {
			if _, ok := known[id]; !ok {
				return document{}, fmt.Errorf("%w: playlist %q references %q", ErrMissingPlaylistTrack, pl.Name, id)
			}
			keys[j] = nkey{Key: id}
		}
		playlistNodes[i] = node{
			Type:    nodeTypePlaylist,
			Name:    pl.Name,
			Entries: len(keys),
			Tracks:  keys,
		}
	}

	return document{
		Version: "1.0.0",
		Product: product{Name: "reklawdbox-go", Version: "1.0.0", Company: "reklawdbox-go"},
		Collection: collection{
			Entries: len(xmlTracks),
			Tracks:  xmlTracks,
		},
		Playlists: playlists{
			Root: node{
				Type:  nodeTypeFolder,
				Name:  "ROOT",
				Count: len(playlistNodes),
				Nodes: playlistNodes,
			},
		},
	}, nil
}
