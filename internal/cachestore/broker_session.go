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

const brokerSessionKeyPrefix = "broker_session:"

// BrokerSession is one persisted (token, expires) pair, keyed by the
// broker's base URL.
type BrokerSession struct {
	BaseURL string
	Token   string
	Expires time.Time
}

func brokerSessionKey(baseURL string) []byte {
	return []byte(brokerSessionKeyPrefix + baseURL)
}

// GetBrokerSession looks up the persisted session for a broker base URL.
func (s *Store) GetBrokerSession(baseURL string) (BrokerSession, error) {
	var rec BrokerSession
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(brokerSessionKey(baseURL))
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
		return BrokerSession{}, err
	}
	return rec, nil
}

// UpsertBrokerSession writes or overwrites a broker session.
func (s *Store) UpsertBrokerSession(rec BrokerSession) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cachestore: marshal broker session: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(brokerSessionKey(rec.BaseURL), data)
	})
}

// ClearBrokerSession removes a persisted session, e.g. on logout or
// expiry transition back to NoSession.
func (s *Store) ClearBrokerSession(baseURL string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(brokerSessionKey(baseURL))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
