// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanv/reklawdbox-go/internal/cachestore"
)

func openTestStore(t *testing.T) *cachestore.Store {
	t.Helper()
	s, err := cachestore.Open(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestBrokerClientNoSessionStartsDeviceAuth exercises the NoSession ->
// PendingAuth transition: the first lookup with no cached session and no
// in-memory pending state calls session/start and returns AuthRequired.
func TestBrokerClientNoSessionStartsDeviceAuth(t *testing.T) {
	var startCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/device/session/start" {
			startCalls++
			fmt.Fprint(w, `{"device_id":"d1","pending_token":"p1","auth_url":"https://example.com/auth","poll_interval_seconds":5,"expires_at":9999999999}`)
			return
		}
		t.Fatalf("unexpected request: %s", r.URL.Path)
	}))
	defer srv.Close()

	store := openTestStore(t)
	client := NewBrokerClient(srv.Client(), srv.URL, "", store)

	_, err := client.Lookup(context.Background(), "Burial", "Archangel", "")
	require.Error(t, err)

	var authErr *AuthRequiredError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "https://example.com/auth", authErr.Remediation.AuthURL)
	assert.Equal(t, int64(5), authErr.Remediation.PollIntervalSecs)
	assert.Equal(t, 1, startCalls)
}

// TestBrokerClientPendingWaitingReturnsAuthRequiredAgain exercises the
// PendingAuth -> (still pending) loop without calling finalize.
func TestBrokerClientPendingWaitingReturnsAuthRequiredAgain(t *testing.T) {
	var finalizeCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/device/session/start":
			fmt.Fprint(w, `{"device_id":"d1","pending_token":"p1","auth_url":"https://example.com/auth","poll_interval_seconds":5,"expires_at":9999999999}`)
		case "/v1/device/session/status":
			fmt.Fprint(w, `{"status":"pending","expires_at":9999999999}`)
		case "/v1/device/session/finalize":
			finalizeCalls++
			fmt.Fprint(w, `{"session_token":"tok","expires_at":9999999999}`)
		default:
			t.Fatalf("unexpected request: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	store := openTestStore(t)
	client := NewBrokerClient(srv.Client(), srv.URL, "", store)

	_, err := client.Lookup(context.Background(), "Burial", "Archangel", "")
	require.Error(t, err)

	_, err = client.Lookup(context.Background(), "Burial", "Archangel", "")
	require.Error(t, err)
	var authErr *AuthRequiredError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 0, finalizeCalls)
}

// TestBrokerClientAuthorizedFinalizesAndLooksUp exercises the full
// PendingAuth -> Active transition and the resulting proxy search.
func TestBrokerClientAuthorizedFinalizesAndLooksUp(t *testing.T) {
	statusResponse := `{"status":"pending","expires_at":9999999999}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/device/session/start":
			fmt.Fprint(w, `{"device_id":"d1","pending_token":"p1","auth_url":"https://example.com/auth","poll_interval_seconds":5,"expires_at":9999999999}`)
		case "/v1/device/session/status":
			fmt.Fprint(w, statusResponse)
		case "/v1/device/session/finalize":
			fmt.Fprint(w, `{"session_token":"tok","expires_at":9999999999}`)
		case "/v1/discogs/proxy/search":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"title":"Burial - Archangel","year":"2007","label":"Hyperdub","genres":["Dubstep"],"styles":["UK Garage"],"url":"https://www.discogs.com/release/1","fuzzy_match":false}`)
		default:
			t.Fatalf("unexpected request: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	store := openTestStore(t)
	client := NewBrokerClient(srv.Client(), srv.URL, "", store)

	_, err := client.Lookup(context.Background(), "Burial", "Archangel", "")
	require.Error(t, err)

	statusResponse = `{"status":"authorized","expires_at":9999999999}`
	result, err := client.Lookup(context.Background(), "Burial", "Archangel", "")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Burial - Archangel", result.Title)
	assert.Equal(t, []string{"UK Garage"}, result.Styles)

	persisted, err := store.GetBrokerSession(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "tok", persisted.Token)
}

// TestBrokerClientActiveSessionClearsOn401 exercises the Active -> NoSession
// transition on a rejected cached token.
func TestBrokerClientActiveSessionClearsOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/discogs/proxy/search":
			w.WriteHeader(http.StatusUnauthorized)
		case "/v1/device/session/start":
			fmt.Fprint(w, `{"device_id":"d1","pending_token":"p1","auth_url":"https://example.com/auth","poll_interval_seconds":5,"expires_at":9999999999}`)
		default:
			t.Fatalf("unexpected request: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	store := openTestStore(t)
	require.NoError(t, store.UpsertBrokerSession(cachestore.BrokerSession{
		BaseURL: srv.URL, Token: "stale", Expires: time.Now().Add(24 * time.Hour),
	}))

	client := NewBrokerClient(srv.Client(), srv.URL, "", store)
	_, err := client.Lookup(context.Background(), "Burial", "Archangel", "")
	require.Error(t, err)

	var authErr *AuthRequiredError
	require.ErrorAs(t, err, &authErr)

	_, err = store.GetBrokerSession(srv.URL)
	assert.ErrorIs(t, err, cachestore.ErrNotFound)
}
