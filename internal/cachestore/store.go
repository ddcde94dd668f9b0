// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cachestore implements the single persistent Cache Store
// (spec.md §4.2): a BadgerDB-backed key-value database exposing the
// enrichment, analysis, broker-session, audit-file and audit-issue
// tables, each as a disjoint key-prefix namespace. All writes are
// idempotent upserts; reads are single-row lookups; the audit-path bulk
// operations are transactional.
package cachestore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/ryanv/reklawdbox-go/internal/logging"
)

// schemaVersion is bumped whenever the on-disk key or value format
// changes. Schema evolution is monotonic and one-way: Store never
// migrates a lower version down.
const schemaVersion = 1

const schemaVersionKey = "meta:schema_version"

// Store wraps a BadgerDB handle. Opens are concurrent-safe: multiple
// readers coexist, writers serialize per connection via Badger's own
// single-writer transaction model.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) the BadgerDB store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cachestore: open %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.ensureSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the on-disk schema version recorded at open time.
func (s *Store) SchemaVersion() (int, error) {
	var version int
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(schemaVersionKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			version = int(val[0])
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("cachestore: read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) ensureSchemaVersion() error {
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(schemaVersionKey))
		if err == badger.ErrKeyNotFound {
			return txn.Set([]byte(schemaVersionKey), []byte{byte(schemaVersion)})
		}
		return err
	})
}

// Compact runs a value-log garbage collection pass. Badger recommends
// calling this periodically rather than on every write; callers should
// schedule it (e.g. hourly) rather than invoke it per-request.
func (s *Store) Compact(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if err == badger.ErrNoRewrite {
		logging.Component("cachestore").Debug().Msg("compact: nothing to rewrite")
		return nil
	}
	return err
}
