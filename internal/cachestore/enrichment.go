// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package cachestore

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const enrichmentKeyPrefix = "enrichment:"

// ErrNotFound is returned by get operations when no row matches the key.
var ErrNotFound = errors.New("cachestore: not found")

// MatchQuality classifies how confidently a cached enrichment result
// matched the query (spec.md §3: Cached enrichment record).
type MatchQuality string

const (
	MatchExact MatchQuality = "exact"
	MatchFuzzy MatchQuality = "fuzzy"
	MatchNone  MatchQuality = "none"
)

// EnrichmentRecord is one cached provider lookup result, keyed by
// (provider, query-artist, query-title). Payload is absent when
// MatchQuality is MatchNone.
type EnrichmentRecord struct {
	Provider     string
	QueryArtist  string
	QueryTitle   string
	MatchQuality MatchQuality
	Payload      []byte // provider-specific JSON blob, nil when MatchQuality is "none"
	CachedAt     time.Time
}

func enrichmentKey(provider, artist, title string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%s", enrichmentKeyPrefix, provider, artist, title))
}

// GetEnrichment looks up a cached enrichment row.
func (s *Store) GetEnrichment(provider, artist, title string) (EnrichmentRecord, error) {
	var rec EnrichmentRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(enrichmentKey(provider, artist, title))
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
		return EnrichmentRecord{}, err
	}
	return rec, nil
}

// UpsertEnrichment writes or overwrites a cached enrichment row.
func (s *Store) UpsertEnrichment(rec EnrichmentRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cachestore: marshal enrichment: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(enrichmentKey(rec.Provider, rec.QueryArtist, rec.QueryTitle), data)
	})
}
