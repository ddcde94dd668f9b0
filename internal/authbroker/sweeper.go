// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authbroker supervises background upkeep for the broker-
// authenticated provider's auth state (spec.md §4.8.1, "Auth orchestrator"
// in the component table). The orchestration logic itself lives in
// internal/provider.BrokerClient; this package only runs the periodic
// expiry sweep as a suture-supervised service so a panic in the sweep
// loop doesn't take down the process.
package authbroker

import (
	"context"
	"errors"
	"time"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
	"github.com/ryanv/reklawdbox-go/internal/logging"
)

// DefaultSweepInterval is how often the sweeper checks for an expired
// broker session.
const DefaultSweepInterval = 5 * time.Minute

// SessionSweeper periodically clears an expired persisted broker session
// so a stale token isn't retried by BrokerClient before its own
// expiry check runs (spec.md §3: Broker session, "cleared ... on natural
// expiry").
type SessionSweeper struct {
	store    *cachestore.Store
	baseURL  string
	interval time.Duration
	name     string
}

// NewSessionSweeper creates a sweeper for one broker base URL. interval
// defaults to DefaultSweepInterval when zero.
func NewSessionSweeper(store *cachestore.Store, baseURL string, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SessionSweeper{store: store, baseURL: baseURL, interval: interval, name: "authbroker-sweeper"}
}

// Serve implements suture.Service: it ticks every interval, clearing the
// persisted session once it has expired, until ctx is canceled.
func (s *SessionSweeper) Serve(ctx context.Context) error {
	log := logging.Component("authbroker")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.sweepOnce(); err != nil {
				log.Warn().Err(err).Msg("session sweep failed")
			}
		}
	}
}

func (s *SessionSweeper) sweepOnce() error {
	session, err := s.store.GetBrokerSession(s.baseURL)
	if errors.Is(err, cachestore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if session.Expires.After(time.Now()) {
		return nil
	}
	return s.store.ClearBrokerSession(s.baseURL)
}

// String implements fmt.Stringer so suture can identify the service in logs.
func (s *SessionSweeper) String() string {
	return s.name
}
