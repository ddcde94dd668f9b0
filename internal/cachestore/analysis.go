// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package cachestore

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const analysisKeyPrefix = "analysis:"

// Analyzer names used as the second half of the analysis cache key
// (spec.md §4.11: "in-process DSP features, out-of-process extractor
// features").
const (
	AnalyzerDSP       = "dsp-builtin"
	AnalyzerExtractor = "essentia-extractor"
)

// AnalysisRecord is one cached DSP- or feature-extractor analyzer run,
// keyed by (file-path, analyzer). FileSize and FileModTime are the source
// file's stat() values at analysis time; a caller considers the cache
// entry valid only when both still match the file on disk (spec.md §3,
// Cached analysis record). Version is advisory only.
type AnalysisRecord struct {
	Path        string
	Analyzer    string
	FileSize    int64
	FileModTime time.Time
	Version     string
	Payload     []byte
	CachedAt    time.Time
}

// Valid reports whether rec is still usable for a file with the given
// current size and modification time (spec.md §3: "a cached result is
// considered valid only when both stored size and mtime equal current
// file size and mtime").
func (rec AnalysisRecord) Valid(currentSize int64, currentModTime time.Time) bool {
	return rec.FileSize == currentSize && rec.FileModTime.Equal(currentModTime)
}

func analysisKey(path, analyzer string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", analysisKeyPrefix, analyzer, path))
}

// GetAnalysis looks up a cached analysis row. When the raw path is not
// present, it retries with the path decoded from its percent-encoded
// form, per spec.md §4.11's resolver lookup rule.
func (s *Store) GetAnalysis(path, analyzer string) (AnalysisRecord, error) {
	rec, err := s.getAnalysisExact(path, analyzer)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return AnalysisRecord{}, err
	}

	decoded, decodeErr := url.QueryUnescape(path)
	if decodeErr != nil || decoded == path {
		return AnalysisRecord{}, ErrNotFound
	}
	return s.getAnalysisExact(decoded, analyzer)
}

func (s *Store) getAnalysisExact(path, analyzer string) (AnalysisRecord, error) {
	var rec AnalysisRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(analysisKey(path, analyzer))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return AnalysisRecord{}, err
	}
	return rec, nil
}

// UpsertAnalysis writes or overwrites a cached analysis row.
func (s *Store) UpsertAnalysis(rec AnalysisRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cachestore: marshal analysis: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(analysisKey(rec.Path, rec.Analyzer), data)
	})
}
