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

const (
	auditFileKeyPrefix  = "audit_file:"
	auditIssueKeyPrefix = "audit_issue:"
)

// auditBatchSize matches the scan operation's transaction batch size
// (spec.md §4.13 step 4: "batches of 500").
const auditBatchSize = 500

// AuditFileRecord is one tracked on-disk file, keyed by path.
type AuditFileRecord struct {
	Path     string
	ModTime  time.Time
	Size     int64
	ScopeDir string
}

// AuditIssueStatus is the lifecycle state of one detected issue.
type AuditIssueStatus string

const (
	AuditIssueOpen          AuditIssueStatus = "open"
	AuditIssueFixed         AuditIssueStatus = "fixed"
	AuditIssueAcceptedAsIs  AuditIssueStatus = "accepted_as_is"
	AuditIssueWontFix       AuditIssueStatus = "wont_fix"
	AuditIssueDeferred      AuditIssueStatus = "deferred"
)

// AuditIssueRecord is one detected convention-check finding, keyed by
// (path, issue-type).
type AuditIssueRecord struct {
	Path      string
	IssueType string
	Tier      string
	Detail    string
	Status    AuditIssueStatus
	UpdatedAt time.Time
}

func auditFileKey(path string) []byte {
	return []byte(auditFileKeyPrefix + path)
}

func auditIssueKey(path, issueType string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", auditIssueKeyPrefix, path, issueType))
}

// GetAuditFile looks up the tracked file row for a path.
func (s *Store) GetAuditFile(path string) (AuditFileRecord, error) {
	var rec AuditFileRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(auditFileKey(path))
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
		return AuditFileRecord{}, err
	}
	return rec, nil
}

// ListAuditFiles returns every tracked file row for a scan scope.
func (s *Store) ListAuditFiles(scopeDir string) ([]AuditFileRecord, error) {
	var out []AuditFileRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(auditFileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			var rec AuditFileRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			if rec.ScopeDir == scopeDir {
				out = append(out, rec)
			}
		}
		return nil
	})
	return out, err
}

// UpsertAuditFilesBatch writes audit-file rows in transactional batches
// of auditBatchSize, committing each batch in submission order.
func (s *Store) UpsertAuditFilesBatch(recs []AuditFileRecord) error {
	for start := 0; start < len(recs); start += auditBatchSize {
		end := start + auditBatchSize
		if end > len(recs) {
			end = len(recs)
		}
		batch := recs[start:end]

		err := s.db.Update(func(txn *badger.Txn) error {
			for _, rec := range batch {
				data, err := json.Marshal(rec)
				if err != nil {
					return fmt.Errorf("cachestore: marshal audit file: %w", err)
				}
				if err := txn.Set(auditFileKey(rec.Path), data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteMissingAuditFiles deletes audit-file rows (and their issues)
// whose path is not in keepPaths, scoped to scopeDir. Called only when a
// scan's filesystem walk completed cleanly.
func (s *Store) DeleteMissingAuditFiles(scopeDir string, keepPaths map[string]struct{}) (deleted int, err error) {
	existing, err := s.ListAuditFiles(scopeDir)
	if err != nil {
		return 0, err
	}

	var toDelete []string
	for _, rec := range existing {
		if _, ok := keepPaths[rec.Path]; !ok {
			toDelete = append(toDelete, rec.Path)
		}
	}

	for start := 0; start < len(toDelete); start += auditBatchSize {
		end := start + auditBatchSize
		if end > len(toDelete) {
			end = len(toDelete)
		}
		batch := toDelete[start:end]

		txnErr := s.db.Update(func(txn *badger.Txn) error {
			for _, path := range batch {
				if err := txn.Delete(auditFileKey(path)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
				if err := s.deleteIssuesForPathTxn(txn, path); err != nil {
					return err
				}
			}
			return nil
		})
		if txnErr != nil {
			return deleted, txnErr
		}
		deleted += len(batch)
	}
	return deleted, nil
}

func (s *Store) deleteIssuesForPathTxn(txn *badger.Txn, path string) error {
	opts := badger.DefaultIteratorOptions
	prefix := []byte(fmt.Sprintf("%s%s:", auditIssueKeyPrefix, path))
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().KeyCopy(nil)
		keys = append(keys, key)
	}
	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// UpsertAuditIssue writes or overwrites one detected issue.
func (s *Store) UpsertAuditIssue(rec AuditIssueRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cachestore: marshal audit issue: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(auditIssueKey(rec.Path, rec.IssueType), data)
	})
}

// ListAuditIssuesForPath returns every issue currently recorded for path.
func (s *Store) ListAuditIssuesForPath(path string) ([]AuditIssueRecord, error) {
	var out []AuditIssueRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(fmt.Sprintf("%s%s:", auditIssueKeyPrefix, path))
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec AuditIssueRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// MarkResolvedForPathWhenNotInSet auto-resolves (status=fixed) any
// previously open issue of this file whose type is neither in
// detectedTypes nor in skipTypes (spec.md §4.13 step 4).
func (s *Store) MarkResolvedForPathWhenNotInSet(path string, detectedTypes, skipTypes map[string]struct{}, now time.Time) (resolved int, err error) {
	existing, err := s.ListAuditIssuesForPath(path)
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, rec := range existing {
			if rec.Status != AuditIssueOpen {
				continue
			}
			if _, detected := detectedTypes[rec.IssueType]; detected {
				continue
			}
			if _, skipped := skipTypes[rec.IssueType]; skipped {
				continue
			}
			rec.Status = AuditIssueFixed
			rec.UpdatedAt = now
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := txn.Set(auditIssueKey(rec.Path, rec.IssueType), data); err != nil {
				return err
			}
			resolved++
		}
		return nil
	})
	return resolved, err
}

// BatchResolveByIDs transitions a set of (path, issueType) keys to a
// terminal status. The "fixed" status is reserved for the scanner's
// auto-resolution; callers outside the scanner must not pass it.
func (s *Store) BatchResolveByIDs(keys [][2]string, status AuditIssueStatus, now time.Time) (affected int, err error) {
	if status == AuditIssueFixed {
		return 0, errors.New("cachestore: status fixed is reserved for scanner auto-resolution")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			path, issueType := k[0], k[1]
			item, err := txn.Get(auditIssueKey(path, issueType))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var rec AuditIssueRecord
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &rec) }); err != nil {
				return err
			}
			rec.Status = status
			rec.UpdatedAt = now
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := txn.Set(auditIssueKey(path, issueType), data); err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	return affected, err
}
