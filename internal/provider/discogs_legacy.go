// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const legacyBreakerName = "discogs-legacy"
const legacyDefaultAPIBaseURL = "https://api.discogs.com"

// LegacyCredentials is the OAuth-1 PLAINTEXT credential set. All four
// fields must be non-empty for legacy auth to engage (spec.md §4.8.2).
type LegacyCredentials struct {
	Key         string
	Secret      string
	Token       string
	TokenSecret string
}

// Enabled reports whether every legacy credential field is populated.
func (l LegacyCredentials) Enabled() bool {
	return l.Key != "" && l.Secret != "" && l.Token != "" && l.TokenSecret != ""
}

// LegacyClient is the direct OAuth-1 client, used in place of the broker
// whenever all four legacy credentials are present.
type LegacyClient struct {
	http       *http.Client
	creds      LegacyCredentials
	apiBaseURL string
	cb         *gobreaker.CircuitBreaker[any]
}

// NewLegacyClient creates a legacy OAuth-1 client. apiBaseURL overrides
// the default https://api.discogs.com when non-empty.
func NewLegacyClient(httpClient *http.Client, creds LegacyCredentials, apiBaseURL string) *LegacyClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if apiBaseURL == "" {
		apiBaseURL = legacyDefaultAPIBaseURL
	}
	return &LegacyClient{http: httpClient, creds: creds, apiBaseURL: strings.TrimRight(apiBaseURL, "/"), cb: newBreaker(legacyBreakerName)}
}

// Lookup waits 1.1s, then searches Discogs directly via OAuth-1 PLAINTEXT
// signing. A 429 triggers a single retry after 30s; a second 429 fails
// (spec.md §4.8.2).
func (c *LegacyClient) Lookup(ctx context.Context, artist, title, album string) (*DiscogsResult, error) {
	select {
	case <-time.After(1100 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return c.lookupInner(ctx, artist, title, album, false)
}

func (c *LegacyClient) lookupInner(ctx context.Context, artist, title, album string, isRetry bool) (*DiscogsResult, error) {
	result, err := runBreaker(c.cb, legacyBreakerName, func() (*DiscogsResult, error) {
		query := url.Values{}
		query.Set("artist", artist)
		query.Set("track", title)
		query.Set("type", "release")
		query.Set("per_page", "15")
		if album != "" {
			query.Set("release_title", album)
		}

		reqURL := c.apiBaseURL + "/database/search?" + query.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", c.authorizationHeader())

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &TransientError{Op: "discogs legacy search", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &TransientError{Op: "discogs legacy search", StatusCode: http.StatusTooManyRequests, RetryAfter: resp.Header.Get("Retry-After"), Err: fmt.Errorf("rate limited")}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, classifyHTTPError("discogs legacy search", resp)
		}

		var payload legacySearchResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, &PermanentError{Op: "discogs legacy search", Err: err}
		}
		if len(payload.Results) == 0 {
			return nil, nil
		}

		for _, r := range payload.Results {
			if resultTitleMatchesArtist(r.Title, artist) {
				return legacyResultToDiscogs(r, false), nil
			}
		}
		return legacyResultToDiscogs(payload.Results[0], true), nil
	})

	var transient *TransientError
	if isRateLimited(err, &transient) && !isRetry {
		select {
		case <-time.After(30 * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return c.lookupInner(ctx, artist, title, album, true)
	}
	if isRateLimited(err, &transient) && isRetry {
		return nil, fmt.Errorf("discogs legacy: rate limited after retry")
	}
	return result, err
}

func isRateLimited(err error, target **TransientError) bool {
	if t, ok := err.(*TransientError); ok && t.StatusCode == http.StatusTooManyRequests {
		*target = t
		return true
	}
	return false
}

func legacyResultToDiscogs(r legacySearchResult, fuzzy bool) *DiscogsResult {
	resultURL := ""
	if r.URI != "" {
		resultURL = "https://www.discogs.com" + r.URI
	}
	label := ""
	if len(r.Label) > 0 {
		label = r.Label[0]
	}
	return &DiscogsResult{
		Title:      r.Title,
		Year:       r.Year,
		Label:      label,
		Genres:     r.Genre,
		Styles:     r.Style,
		URL:        resultURL,
		CoverImage: r.CoverImage,
		FuzzyMatch: fuzzy,
	}
}

// resultTitleMatchesArtist mirrors the original implementation's loose
// match rule: artist names under 3 normalized characters match anything
// (too short to discriminate); otherwise the normalized result title must
// contain the normalized artist.
func resultTitleMatchesArtist(resultTitle, artist string) bool {
	normArtist := Normalize(artist)
	if len(normArtist) < 3 {
		return true
	}
	return strings.Contains(Normalize(resultTitle), normArtist)
}

// authorizationHeader builds the OAuth-1 PLAINTEXT Authorization header:
// signature is "consumer_secret&token_secret", every parameter percent
// encoded, nonce a 16-byte hex value, timestamp the current unix time. No
// secret ever appears in the URL.
func (c *LegacyClient) authorizationHeader() string {
	signature := c.creds.Secret + "&" + c.creds.TokenSecret
	nonce := randomHexNonce()
	timestamp := time.Now().Unix()

	return fmt.Sprintf(
		`OAuth oauth_consumer_key="%s", oauth_nonce="%s", oauth_signature="%s", oauth_signature_method="PLAINTEXT", oauth_timestamp="%d", oauth_token="%s", oauth_version="1.0"`,
		oauthEscape(c.creds.Key), oauthEscape(nonce), oauthEscape(signature), timestamp, oauthEscape(c.creds.Token),
	)
}

func randomHexNonce() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// oauthEscape percent-encodes per RFC 3986 unreserved characters, matching
// the original implementation's NON_ALPHANUMERIC-minus-"-_.~" charset.
func oauthEscape(s string) string {
	var b strings.Builder
	for _, r := range []byte(s) {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' || r == '~' {
			b.WriteByte(r)
		} else {
			fmt.Fprintf(&b, "%%%02X", r)
		}
	}
	return b.String()
}
