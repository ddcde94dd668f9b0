// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolsurface

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ryanv/reklawdbox-go/internal/export"
)

// PlaylistDefinitionParams mirrors export.PlaylistDefinition as a
// JSON-shaped parameter.
type PlaylistDefinitionParams struct {
	Name     string   `json:"name" validate:"required"`
	TrackIDs []string `json:"track_ids" validate:"required,min=1"`
}

// WriteXMLParams is write_xml's parameter object.
type WriteXMLParams struct {
	OutputPath string                     `json:"output_path,omitempty"`
	Playlists  []PlaylistDefinitionParams `json:"playlists,omitempty"`
}

// WriteXMLResult is write_xml's response.
type WriteXMLResult struct {
	Path          string `json:"path"`
	TrackCount    int    `json:"track_count"`
	PlaylistCount int    `json:"playlist_count"`
	BackedUp      string `json:"backed_up,omitempty"`
}

// WriteXML writes staged changes and optional playlists to a
// Rekordbox-compatible XML file, backing up any file already at the
// target path first (original_source/src/tools/mod.rs: "write_xml").
func (s *Service) WriteXML(ctx context.Context, p WriteXMLParams, now time.Time) (*WriteXMLResult, *ToolError) {
	ids := map[string]struct{}{}
	for _, id := range s.Changes.PendingIDs() {
		ids[id] = struct{}{}
	}

	playlists := make([]export.PlaylistDefinition, len(p.Playlists))
	for i, pl := range p.Playlists {
		playlists[i] = export.PlaylistDefinition{Name: pl.Name, TrackIDs: pl.TrackIDs}
		for _, id := range pl.TrackIDs {
			ids[id] = struct{}{}
		}
	}

	idList := make([]string, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}

	tracks, err := s.Catalog.GetByIDs(ctx, idList)
	if err != nil {
		return nil, FromError(err)
	}

	outputPath := p.OutputPath
	backedUp := ""
	if outputPath != "" {
		if backupPath, err := backupExisting(outputPath, now); err != nil {
			return nil, newToolError(CategoryFilesystem, err.Error())
		} else {
			backedUp = backupPath
		}
	}

	result, err := export.Export(s.Changes, tracks, export.Request{
		OutputPath: outputPath,
		Playlists:  playlists,
	}, now)
	if err != nil {
		return nil, FromError(err)
	}

	return &WriteXMLResult{
		Path:          result.Path,
		TrackCount:    result.TrackCount,
		PlaylistCount: result.PlaylistCount,
		BackedUp:      backedUp,
	}, nil
}

// backupExisting copies any file already at path aside before it is
// overwritten, returning the backup's path (or "" when path doesn't yet
// exist).
func backupExisting(path string, now time.Time) (string, error) {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("export: open existing file for backup: %w", err)
	}
	defer src.Close()

	backupPath := fmt.Sprintf("%s.bak-%s", path, now.Format("20060102-150405"))
	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("export: create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("export: copy backup: %w", err)
	}
	return backupPath, nil
}
