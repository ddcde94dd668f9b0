// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Reader is the read-only Catalog Reader. Every query joins the track
// table to its lookup tables by identifier and yields fully materialized,
// human-readable Track records. Opened read-only: this component never
// writes to the rekordbox database.
type Reader struct {
	conn *sql.DB
}

// Open opens the DuckDB-backed catalog at path in read-only mode.
func Open(path string) (*Reader, error) {
	conn, err := sql.Open("duckdb", fmt.Sprintf("%s?access_mode=READ_ONLY", path))
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping %s: %w", path, err)
	}
	return &Reader{conn: conn}, nil
}

// Close releases the underlying connection.
func (r *Reader) Close() error {
	return r.conn.Close()
}

const trackColumns = `
	t.id, t.title, t.artist, t.album, t.genre, t.remixer, t.label, t.key,
	t.tempo, t.rating, t.comment, t.color, t.year, t.length_secs, t.path,
	t.play_count, t.added_at`

const trackSelectBase = `
SELECT` + trackColumns + `
FROM tracks t
LEFT JOIN playlist_tracks pt ON pt.track_id = t.id
`

func scanTrack(rows *sql.Rows) (Track, error) {
	var t Track
	err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.Album, &t.Genre, &t.Remixer,
		&t.Label, &t.Key, &t.Tempo, &t.Rating, &t.Comment, &t.Color, &t.Year,
		&t.LengthSecs, &t.Path, &t.PlayCount, &t.AddedAt)
	return t, err
}

// Search runs the full catalog filter set (spec.md §4.1) and returns
// fully materialized Track records. Any storage error surfaces as a
// typed error; there are no partial results.
func (r *Reader) Search(ctx context.Context, f SearchFilter) ([]Track, error) {
	where := []string{}
	args := []interface{}{}

	if !f.IncludeSamples {
		where = append(where, "t.path NOT LIKE ?")
		args = append(args, SamplePathPrefix+"%")
	}
	if f.FreeText != "" {
		where = append(where, "(t.title ILIKE ? OR t.artist ILIKE ?)")
		needle := "%" + f.FreeText + "%"
		args = append(args, needle, needle)
	}
	if f.Artist != "" {
		where = append(where, "t.artist ILIKE ?")
		args = append(args, "%"+f.Artist+"%")
	}
	if f.Genre != "" {
		where = append(where, "t.genre = ?")
		args = append(args, f.Genre)
	}
	if f.MinRating > 0 {
		where = append(where, "t.rating >= ?")
		args = append(args, f.MinRating)
	}
	if f.MinTempo > 0 {
		where = append(where, "t.tempo >= ?")
		args = append(args, f.MinTempo)
	}
	if f.MaxTempo > 0 {
		where = append(where, "t.tempo <= ?")
		args = append(args, f.MaxTempo)
	}
	if f.Key != "" {
		where = append(where, "t.key = ?")
		args = append(args, f.Key)
	}
	if f.Label != "" {
		where = append(where, "t.label ILIKE ?")
		args = append(args, "%"+f.Label+"%")
	}
	if f.PathContains != "" {
		where = append(where, "t.path ILIKE ?")
		args = append(args, "%"+f.PathContains+"%")
	}
	if !f.AddedAfter.IsZero() {
		where = append(where, "t.added_at >= ?")
		args = append(args, f.AddedAfter)
	}
	if !f.AddedBefore.IsZero() {
		where = append(where, "t.added_at <= ?")
		args = append(args, f.AddedBefore)
	}
	if f.HasGenre != nil {
		if *f.HasGenre {
			where = append(where, "t.genre IS NOT NULL AND t.genre != ''")
		} else {
			where = append(where, "(t.genre IS NULL OR t.genre = '')")
		}
	}
	if f.PlaylistID != "" {
		where = append(where, "pt.playlist_id = ?")
		args = append(args, f.PlaylistID)
	}

	query := trackSelectBase
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += "ORDER BY t.id\n"
	if f.Limit > 0 {
		query += fmt.Sprintf("LIMIT %d\n", f.Limit)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	defer rows.Close()

	var out []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: search scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: search rows: %w", err)
	}
	return out, nil
}

// GetByID returns a single Track by identifier.
func (r *Reader) GetByID(ctx context.Context, id string) (Track, bool, error) {
	rows, err := r.conn.QueryContext(ctx, trackSelectBase+"WHERE t.id = ?", id)
	if err != nil {
		return Track{}, false, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return Track{}, false, nil
	}
	t, err := scanTrack(rows)
	if err != nil {
		return Track{}, false, fmt.Errorf("catalog: get scan %s: %w", id, err)
	}
	return t, true, nil
}

// GetByIDs batch-fetches Track records, in arbitrary storage order.
func (r *Reader) GetByIDs(ctx context.Context, ids []string) ([]Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := trackSelectBase + fmt.Sprintf("WHERE t.id IN (%s)\n", strings.Join(placeholders, ", "))

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: get-by-ids: %w", err)
	}
	defer rows.Close()

	var out []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: get-by-ids scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListPlaylists returns every playlist in the catalog.
func (r *Reader) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT id, name, COALESCE(parent_id, '') FROM playlists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list playlists: %w", err)
	}
	defer rows.Close()

	var out []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.ParentID); err != nil {
			return nil, fmt.Errorf("catalog: list playlists scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PlaylistTracks returns a playlist's tracks in track-number order. limit
// <= 0 means unbounded.
func (r *Reader) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]Track, error) {
	query := trackSelectBase + `WHERE pt.playlist_id = ?
ORDER BY pt.track_number
`
	args := []interface{}{playlistID}
	if limit > 0 {
		query += fmt.Sprintf("LIMIT %d\n", limit)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: playlist tracks %s: %w", playlistID, err)
	}
	defer rows.Close()

	var out []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: playlist tracks scan %s: %w", playlistID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GenreStats returns aggregate per-genre counts, excluding factory samples.
func (r *Reader) GenreStats(ctx context.Context) ([]GenreCount, error) {
	rows, err := r.conn.QueryContext(ctx, `
SELECT t.genre, COUNT(*)
FROM tracks t
WHERE t.path NOT LIKE ? AND t.genre IS NOT NULL AND t.genre != ''
GROUP BY t.genre
ORDER BY COUNT(*) DESC
`, SamplePathPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("catalog: genre stats: %w", err)
	}
	defer rows.Close()

	var out []GenreCount
	for rows.Next() {
		var g GenreCount
		if err := rows.Scan(&g.Genre, &g.Count); err != nil {
			return nil, fmt.Errorf("catalog: genre stats scan: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
