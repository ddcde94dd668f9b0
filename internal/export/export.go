// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ryanv/reklawdbox-go/internal/catalog"
	"github.com/ryanv/reklawdbox-go/internal/changemgr"
)

// Export drains every staged edit from changes, applies it over tracks,
// and writes a Rekordbox XML document. tracks must already contain every
// track referenced by req.Playlists and by any pending staged edit the
// caller intends to export — fetching that set from the catalog is the
// caller's job, keeping this package free of a catalog dependency.
//
// A failure at any stage restores the drained overlays and leaves no file
// on disk: either the export fully succeeds or the staged edits are exactly
// as they were before the call.
func Export(changes *changemgr.Store, tracks []catalog.Track, req Request, now time.Time) (Result, error) {
	snapshot := changes.Take(nil)

	applied := changemgr.ApplySnapshot(tracks, snapshot)

	doc, err := buildDocument(applied, req.Playlists)
	if err != nil {
		changes.Restore(snapshot)
		return Result{}, err
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = fmt.Sprintf(defaultOutputDirFormat, now.Local().Format(defaultTimestampLayout))
	}

	if err := writeAtomic(outputPath, doc); err != nil {
		changes.Restore(snapshot)
		return Result{}, fmt.Errorf("export: write %s: %w", outputPath, err)
	}

	return Result{
		Path:          outputPath,
		TrackCount:    len(applied),
		PlaylistCount: len(req.Playlists),
	}, nil
}

// writeAtomic marshals doc and installs it at path via a same-directory
// temp file plus rename, so a failed or interrupted write never leaves a
// truncated document at path.
func writeAtomic(path string, doc document) error {
	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	body = append([]byte(xml.Header), body...)

	tmp, err := os.CreateTemp(dir, ".reklawdbox-export-*.xml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
