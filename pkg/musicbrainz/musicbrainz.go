// Package musicbrainz implements the small slice of the MusicBrainz WS/2 API
// needed to find the original release year of a song. Spotify often reports
// remaster or compilation dates, so the converter asks MusicBrainz for the
// earliest official release of a recording instead. Cover versions are
// filtered out by comparing normalised artist names.
//
// The MusicBrainz API policy requires an identifying User-Agent and at most
// one request per second; the client enforces the spacing between its own
// calls. Network calls go through the provided http.Client so tests can
// substitute a stub server.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const apiBase = "https://musicbrainz.org/ws/2"

// DefaultUserAgent is used when no User-Agent is configured. Operators should
// replace the contact address with their own.
const DefaultUserAgent = "HitsterPlaylistConverter/1.0 ( hitster@example.com )"

// Client talks to the MusicBrainz web service. The zero value is usable; all
// fields are optional overrides.
type Client struct {
	// UserAgent identifies the application per the MusicBrainz policy.
	UserAgent string
	// HTTP is the client for outbound calls, http.DefaultClient when nil.
	HTTP *http.Client
	// BaseURL overrides the API root, used by tests.
	BaseURL string
	// MinInterval is the spacing enforced between requests. Defaults to
	// 1.1s, slightly above the documented one-request-per-second limit.
	MinInterval time.Duration

	mu   sync.Mutex
	last time.Time
}

// Recording is a search result entry.
type Recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
}

// ArtistCredit names one credited artist of a recording.
type ArtistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
}

// Release is one published release of a recording.
type Release struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// throttle blocks until the client is allowed to issue its next request.
func (c *Client) throttle(ctx context.Context) error {
	interval := c.MinInterval
	if interval == 0 {
		interval = 1100 * time.Millisecond
	}
	c.mu.Lock()
	now := time.Now()
	next := c.last.Add(interval)
	if next.Before(now) {
		next = now
	}
	c.last = next
	c.mu.Unlock()

	if d := time.Until(next); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// get performs a throttled GET against the API and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	base := c.BaseURL
	if base == "" {
		base = apiBase
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", ua)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("musicbrainz: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// SearchRecordings queries the recording index for a title by a given artist.
// At most ten results are returned.
func (c *Client) SearchRecordings(ctx context.Context, title, artist string) ([]Recording, error) {
	params := url.Values{
		"query": {fmt.Sprintf("recording:%q AND artist:%q", title, artist)},
		"fmt":   {"json"},
		"limit": {"10"},
	}
	var body struct {
		Recordings []Recording `json:"recordings"`
	}
	if err := c.get(ctx, "/recording", params, &body); err != nil {
		return nil, err
	}
	return body.Recordings, nil
}

// RecordingReleases fetches all releases the recording appeared on.
func (c *Client) RecordingReleases(ctx context.Context, id string) ([]Release, error) {
	params := url.Values{
		"fmt": {"json"},
		"inc": {"releases"},
	}
	var body struct {
		Releases []Release `json:"releases"`
	}
	if err := c.get(ctx, "/recording/"+id, params, &body); err != nil {
		return nil, err
	}
	return body.Releases, nil
}

// OriginalYear returns the earliest release year found for the song across
// all matching recordings. Recordings credited to a different artist are
// skipped as likely covers. Lookup failures count as no result, matching the
// tolerant behaviour of the conversion pipeline: a miss falls back to the
// Spotify date rather than aborting the run.
func (c *Client) OriginalYear(ctx context.Context, title, artist string) (int, bool) {
	recs, err := c.SearchRecordings(ctx, title, artist)
	if err != nil {
		return 0, false
	}
	earliest := 0
	for _, rec := range recs {
		if name := creditedArtist(rec); name != "" && !artistsMatch(artist, name) {
			continue
		}
		releases, err := c.RecordingReleases(ctx, rec.ID)
		if err != nil {
			continue
		}
		for _, rel := range releases {
			if y := yearOf(rel.Date); y > 0 && (earliest == 0 || y < earliest) {
				earliest = y
			}
		}
	}
	return earliest, earliest != 0
}

// creditedArtist returns the first named artist of a recording's credits.
func creditedArtist(rec Recording) string {
	for _, credit := range rec.ArtistCredit {
		if credit.Artist.Name != "" {
			return credit.Artist.Name
		}
		if credit.Name != "" {
			return credit.Name
		}
	}
	return ""
}

// yearOf extracts a four-digit year from a MusicBrainz date string, which may
// be a bare year, YYYY-MM or a full date. Zero means no usable year.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

var (
	parensRe = regexp.MustCompile(`\(.*?\)`)
	bracksRe = regexp.MustCompile(`\[.*?\]`)
	featRe   = regexp.MustCompile(`\bfeat\..*`)
	ftRe     = regexp.MustCompile(`\bft\..*`)
	punctRe  = regexp.MustCompile(`[^\w\s]`)
	theRe    = regexp.MustCompile(`\bthe\b`)
)

// normalise reduces an artist name to a comparable core: lowercased, with
// parenthesised qualifiers, featuring credits, punctuation and the word
// "the" removed.
func normalise(name string) string {
	name = strings.ToLower(name)
	name = parensRe.ReplaceAllString(name, "")
	name = bracksRe.ReplaceAllString(name, "")
	name = featRe.ReplaceAllString(name, "")
	name = ftRe.ReplaceAllString(name, "")
	name = punctRe.ReplaceAllString(name, "")
	name = theRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// artistsMatch reports whether two artist names refer to the same act. The
// comparison accepts containment in either direction so credit variations
// like "Artist & Friends" still match.
func artistsMatch(a, b string) bool {
	na, nb := normalise(a), normalise(b)
	return na == nb || strings.Contains(nb, na) || strings.Contains(na, nb)
}
