// reklawdbox-go - DJ library sequencing, enrichment and export server
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	beatportBreakerName = "beatport-html"
	beatportUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	beatportRateLimit = 2 * time.Second
)

// BeatportResult is the unauthenticated HTML provider's lookup payload
// (spec.md §4.8.3). BPM is absent (nil) when the page's bpm field is
// outside the signed-32-bit range.
type BeatportResult struct {
	Genre     string
	BPM       *int32
	Key       string
	TrackName string
	Artists   []string
}

// BeatportClient scrapes Beatport's search page for a track match, rate
// limited to one request per beatportRateLimit interval.
type BeatportClient struct {
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[any]
}

// NewBeatportClient creates a rate-limited, circuit-broken Beatport client.
func NewBeatportClient(httpClient *http.Client) *BeatportClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BeatportClient{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(beatportRateLimit), 1),
		cb:      newBreaker(beatportBreakerName),
	}
}

// Lookup fetches and parses the Beatport search page for artist/title.
// Returns (nil, nil) on no match, not an error.
func (c *BeatportClient) Lookup(ctx context.Context, artist, title string) (*BeatportResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return runBreaker(c.cb, beatportBreakerName, func() (*BeatportResult, error) {
		query := artist + " " + title
		reqURL := "https://www.beatport.com/search/tracks?q=" + url.QueryEscape(query)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", beatportUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &TransientError{Op: "beatport search", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &TransientError{Op: "beatport search", StatusCode: resp.StatusCode, RetryAfter: resp.Header.Get("Retry-After"), Err: errHTTPStatus(resp.StatusCode)}
		}
		if resp.StatusCode >= 400 {
			return nil, &PermanentError{Op: "beatport search", StatusCode: resp.StatusCode, Err: errHTTPStatus(resp.StatusCode)}
		}

		html, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &PermanentError{Op: "beatport search", Err: err}
		}

		return parseBeatportHTML(string(html), artist, title)
	})
}

func errHTTPStatus(code int) error {
	return &httpStatusError{code: code}
}

type httpStatusError struct{ code int }

func (e *httpStatusError) Error() string { return "http " + strconv.Itoa(e.code) }

// parseBeatportHTML extracts the embedded __NEXT_DATA__ JSON blob, walks
// props.pageProps.dehydratedState.queries, and scans every entry's
// state.data.data track list for a match (spec.md §4.8.3).
func parseBeatportHTML(html, artist, title string) (*BeatportResult, error) {
	jsonStr, ok := extractNextDataJSON(html)
	if !ok {
		return nil, &PermanentError{Op: "beatport parse", Err: errMissingNextData}
	}

	var nextData map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &nextData); err != nil {
		return nil, &PermanentError{Op: "beatport parse", Err: err}
	}

	queries, ok := pointerArray(nextData, "props", "pageProps", "dehydratedState", "queries")
	if !ok {
		return nil, &PermanentError{Op: "beatport parse", Err: errMissingQueries}
	}

	for _, q := range queries {
		qMap, ok := q.(map[string]any)
		if !ok {
			continue
		}
		tracks, ok := pointerArray(qMap, "state", "data", "data")
		if !ok {
			continue
		}
		for _, t := range tracks {
			track, ok := t.(map[string]any)
			if !ok {
				continue
			}
			if isTrackMatch(track, artist, title) {
				return trackToBeatportResult(track), nil
			}
		}
	}

	return nil, nil
}

var (
	errMissingNextData = beatportErr("HTML missing __NEXT_DATA__ script tag")
	errMissingQueries  = beatportErr("JSON missing dehydratedState/queries path")
)

type beatportErr string

func (e beatportErr) Error() string { return string(e) }

// extractNextDataJSON locates the <script id="__NEXT_DATA__" ...>...</script>
// payload, tolerating either quote style around the id attribute.
func extractNextDataJSON(html string) (string, bool) {
	idPos := strings.Index(html, `id="__NEXT_DATA__"`)
	if idPos < 0 {
		idPos = strings.Index(html, `id='__NEXT_DATA__'`)
	}
	if idPos < 0 {
		return "", false
	}

	scriptStart := strings.LastIndex(html[:idPos], "<script")
	if scriptStart < 0 {
		return "", false
	}
	openTagRel := strings.Index(html[scriptStart:], ">")
	if openTagRel < 0 {
		return "", false
	}
	openTagEnd := scriptStart + openTagRel + 1
	closeRel := strings.Index(html[openTagEnd:], "</script>")
	if closeRel < 0 {
		return "", false
	}
	return strings.TrimSpace(html[openTagEnd : openTagEnd+closeRel]), true
}

func pointerArray(m map[string]any, path ...string) ([]any, bool) {
	var cur any = m
	for _, key := range path {
		asMap, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = asMap[key]
		if !ok {
			return nil, false
		}
	}
	arr, ok := cur.([]any)
	return arr, ok
}

// isTrackMatch is the exact rule from spec.md §4.8.3: case-folded,
// trimmed artist equality against any listed artist, AND the track name
// contains (or is contained by) the case-folded title.
func isTrackMatch(track map[string]any, artist, title string) bool {
	normArtist := strings.TrimSpace(strings.ToLower(artist))
	normTitle := strings.TrimSpace(strings.ToLower(title))
	if normArtist == "" || normTitle == "" {
		return false
	}

	artistMatch := false
	if artists, ok := track["artists"].([]any); ok {
		for _, a := range artists {
			aMap, ok := a.(map[string]any)
			if !ok {
				continue
			}
			name, _ := aMap["artist_name"].(string)
			if strings.ToLower(name) == normArtist {
				artistMatch = true
				break
			}
		}
	}
	if !artistMatch {
		return false
	}

	trackName, _ := track["track_name"].(string)
	trackName = strings.TrimSpace(strings.ToLower(trackName))
	if trackName == "" {
		return false
	}

	return strings.Contains(trackName, normTitle) || strings.Contains(normTitle, trackName)
}

func trackToBeatportResult(track map[string]any) *BeatportResult {
	trackName, _ := track["track_name"].(string)

	var artists []string
	if arr, ok := track["artists"].([]any); ok {
		for _, a := range arr {
			if aMap, ok := a.(map[string]any); ok {
				if name, ok := aMap["artist_name"].(string); ok {
					artists = append(artists, name)
				}
			}
		}
	}

	genre := ""
	if arr, ok := track["genre"].([]any); ok && len(arr) > 0 {
		if gMap, ok := arr[0].(map[string]any); ok {
			genre, _ = gMap["genre_name"].(string)
		}
	}

	var bpm *int32
	if v, ok := track["bpm"].(float64); ok {
		if v >= -2147483648 && v <= 2147483647 {
			i := int32(v)
			bpm = &i
		}
	}

	key, _ := track["key_name"].(string)

	return &BeatportResult{
		Genre:     genre,
		BPM:       bpm,
		Key:       key,
		TrackName: trackName,
		Artists:   artists,
	}
}
