// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
)

const brokerBreakerName = "discogs-broker"

// BrokerClient drives the device-code auth state machine against a
// session broker and caches the resulting session in the store
// (spec.md §4.8.1).
//
//	NoSession ──start──▶ PendingAuth ──poll(authorized)──▶ Active
//
// Expiry at any stage re-enters NoSession.
type BrokerClient struct {
	http        *http.Client
	baseURL     string
	brokerToken string
	store       *cachestore.Store
	cb          *gobreaker.CircuitBreaker[any]

	mu      sync.Mutex
	pending *PendingDeviceSession
}

// NewBrokerClient creates a broker client bound to one broker base URL.
func NewBrokerClient(httpClient *http.Client, baseURL, brokerToken string, store *cachestore.Store) *BrokerClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BrokerClient{
		http:        httpClient,
		baseURL:     baseURL,
		brokerToken: brokerToken,
		store:       store,
		cb:          newBreaker(brokerBreakerName),
	}
}

// Lookup resolves the broker auth state and, once Active, performs the
// proxied provider search. It returns *AuthRequiredError when the caller
// must complete or resume device-code auth.
func (c *BrokerClient) Lookup(ctx context.Context, artist, title, album string) (*DiscogsResult, error) {
	now := time.Now()

	persisted, err := c.store.GetBrokerSession(c.baseURL)
	switch {
	case err == nil && persisted.Expires.After(now):
		result, lookupErr := c.lookupViaBroker(ctx, persisted.Token, artist, title, album)
		if lookupErr == nil {
			return result, nil
		}
		var authErr *AuthRequiredError
		if !asAuthRequired(lookupErr, &authErr) {
			return nil, lookupErr
		}
		// Broker rejected the cached token; clear it and fall through to
		// the pending-auth path below.
		_ = c.store.ClearBrokerSession(c.baseURL)
	case err == nil:
		_ = c.store.ClearBrokerSession(c.baseURL)
	case err != cachestore.ErrNotFound:
		return nil, fmt.Errorf("discogs broker: session cache read: %w", err)
	}

	return c.resolvePending(ctx, artist, title, album, now)
}

func (c *BrokerClient) resolvePending(ctx context.Context, artist, title, album string, now time.Time) (*DiscogsResult, error) {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()

	if pending == nil || !pending.ExpiresAt.After(now) {
		if pending != nil {
			c.mu.Lock()
			c.pending = nil
			c.mu.Unlock()
		}
		return nil, c.startNewSession(ctx)
	}

	status, err := c.sessionStatus(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("discogs broker: status poll: %w", err)
	}

	switch status.Status {
	case "authorized", "finalized":
		return c.finalizeAndLookup(ctx, pending, artist, title, album)
	case "pending":
		return nil, newPendingAuthRequired(
			"Discogs sign-in is still pending. Complete browser auth, then retry.",
			pending.AuthURL, pending.PollIntervalSecs, pending.ExpiresAt,
		)
	default:
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		return nil, c.startNewSession(ctx)
	}
}

func (c *BrokerClient) startNewSession(ctx context.Context) error {
	started, err := c.deviceSessionStart(ctx)
	if err != nil {
		return fmt.Errorf("discogs broker: session start: %w", err)
	}
	c.mu.Lock()
	c.pending = started
	c.mu.Unlock()
	return newPendingAuthRequired(
		"Discogs sign-in required. Open the auth URL in a browser, then retry.",
		started.AuthURL, started.PollIntervalSecs, started.ExpiresAt,
	)
}

func (c *BrokerClient) finalizeAndLookup(ctx context.Context, pending *PendingDeviceSession, artist, title, album string) (*DiscogsResult, error) {
	finalized, err := c.deviceSessionFinalize(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("discogs broker: finalize: %w", err)
	}

	if err := c.store.UpsertBrokerSession(cachestore.BrokerSession{
		BaseURL: c.baseURL,
		Token:   finalized.SessionToken,
		Expires: time.Unix(finalized.ExpiresAt, 0),
	}); err != nil {
		return nil, fmt.Errorf("discogs broker: session cache write: %w", err)
	}

	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	return c.lookupViaBroker(ctx, finalized.SessionToken, artist, title, album)
}

func asAuthRequired(err error, target **AuthRequiredError) bool {
	if ar, ok := err.(*AuthRequiredError); ok {
		*target = ar
		return true
	}
	return false
}

func (c *BrokerClient) deviceSessionStart(ctx context.Context) (*PendingDeviceSession, error) {
	return runBreaker(c.cb, brokerBreakerName, func() (*PendingDeviceSession, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/device/session/start", nil)
		if err != nil {
			return nil, err
		}
		c.applyBrokerToken(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &TransientError{Op: "discogs broker session/start", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, classifyHTTPError("discogs broker session/start", resp)
		}

		var payload deviceSessionStartResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, &PermanentError{Op: "discogs broker session/start", Err: err}
		}

		return &PendingDeviceSession{
			DeviceID:         payload.DeviceID,
			PendingToken:     payload.PendingToken,
			AuthURL:          payload.AuthURL,
			PollIntervalSecs: payload.PollIntervalSecs,
			ExpiresAt:        time.Unix(payload.ExpiresAt, 0),
		}, nil
	})
}

func (c *BrokerClient) sessionStatus(ctx context.Context, pending *PendingDeviceSession) (*deviceSessionStatusResponse, error) {
	return runBreaker(c.cb, brokerBreakerName, func() (*deviceSessionStatusResponse, error) {
		u := fmt.Sprintf("%s/v1/device/session/status?device_id=%s&pending_token=%s",
			c.baseURL, url.QueryEscape(pending.DeviceID), url.QueryEscape(pending.PendingToken))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		c.applyBrokerToken(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &TransientError{Op: "discogs broker session/status", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, classifyHTTPError("discogs broker session/status", resp)
		}

		var payload deviceSessionStatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, &PermanentError{Op: "discogs broker session/status", Err: err}
		}
		return &payload, nil
	})
}

func (c *BrokerClient) deviceSessionFinalize(ctx context.Context, pending *PendingDeviceSession) (*deviceSessionFinalizeResponse, error) {
	return runBreaker(c.cb, brokerBreakerName, func() (*deviceSessionFinalizeResponse, error) {
		body, err := json.Marshal(map[string]string{
			"device_id":     pending.DeviceID,
			"pending_token": pending.PendingToken,
		})
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/device/session/finalize", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		c.applyBrokerToken(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &TransientError{Op: "discogs broker session/finalize", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, classifyHTTPError("discogs broker session/finalize", resp)
		}

		var payload deviceSessionFinalizeResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, &PermanentError{Op: "discogs broker session/finalize", Err: err}
		}
		return &payload, nil
	})
}

// lookupViaBroker performs the proxied search. A 401 maps to
// AuthRequiredError so the caller clears its cached session and restarts
// the device-code flow.
func (c *BrokerClient) lookupViaBroker(ctx context.Context, sessionToken, artist, title, album string) (*DiscogsResult, error) {
	return runBreaker(c.cb, brokerBreakerName, func() (*DiscogsResult, error) {
		body, err := json.Marshal(map[string]string{"artist": artist, "title": title, "album": album})
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/discogs/proxy/search", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+sessionToken)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &TransientError{Op: "discogs broker proxy/search", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, newAuthRequired("Discogs broker session is missing or expired. Re-run lookup to start auth.")
		}
		if resp.StatusCode != http.StatusOK {
			return nil, classifyHTTPError("discogs broker proxy/search", resp)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &PermanentError{Op: "discogs broker proxy/search", Err: err}
		}
		return parseBrokerLookupPayload(raw)
	})
}

// parseBrokerLookupPayload tolerates both the wrapped envelope
// ({result, match_quality, cache_hit}) and a bare result object.
func parseBrokerLookupPayload(raw []byte) (*DiscogsResult, error) {
	var envelope brokerLookupEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Result != nil {
			return envelope.Result, nil
		}
		if envelope.MatchQuality != "" {
			return nil, nil
		}
	}

	var bare DiscogsResult
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, &PermanentError{Op: "discogs broker proxy/search", Err: fmt.Errorf("invalid broker payload: %w", err)}
	}
	if bare.Title == "" && bare.URL == "" {
		return nil, nil
	}
	return &bare, nil
}

func (c *BrokerClient) applyBrokerToken(req *http.Request) {
	if c.brokerToken != "" {
		req.Header.Set("x-reklawdbox-broker-token", c.brokerToken)
	}
}

// classifyHTTPError buckets a non-2xx broker response into the transient
// vs permanent taxonomy (spec.md §7).
func classifyHTTPError(op string, resp *http.Response) error {
	status := resp.StatusCode
	retryAfter := resp.Header.Get("Retry-After")
	if status == http.StatusTooManyRequests || status >= 500 {
		return &TransientError{Op: op, StatusCode: status, RetryAfter: retryAfter, Err: fmt.Errorf("http %d", status)}
	}
	return &PermanentError{Op: op, StatusCode: status, Err: fmt.Errorf("http %d", status)}
}
